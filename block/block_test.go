package block

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func newDevice(t *testing.T) *Device {
	t.Helper()
	path := filepath.Join(t.TempDir(), "the_disk")
	d := Open(path)
	if err := d.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestInitCreatesFullSizeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "the_disk")
	d := Open(path)
	if err := d.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Size() < Size {
		t.Fatalf("expected file of at least %d bytes, got %d", Size, info.Size())
	}
}

func TestInitIsIdempotentOnAlreadySizedFile(t *testing.T) {
	d := newDevice(t)
	if err := d.WriteBlock(5, []byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.ReadBlock(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("hello")) {
		t.Fatalf("expected write to survive a second Init, got %q", got[:5])
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	d := newDevice(t)
	payload := bytes.Repeat([]byte{0xAB}, BlockSize)
	if err := d.WriteBlock(10, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.ReadBlock(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("read did not match write")
	}
}

func TestShortWritePadsWithSingleNUL(t *testing.T) {
	d := newDevice(t)
	if err := d.WriteBlock(20, []byte("hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.ReadBlock(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != BlockSize {
		t.Fatalf("expected a full block back, got %d bytes", len(got))
	}
	if !bytes.Equal(got[:2], []byte("hi")) || got[2] != 0 {
		t.Fatalf("expected 'hi\\0...', got %q", got[:4])
	}
}

func TestLongWriteIsTruncated(t *testing.T) {
	d := newDevice(t)
	payload := bytes.Repeat([]byte{0x42}, BlockSize+100)
	if err := d.WriteBlock(30, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.ReadBlock(30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != BlockSize {
		t.Fatalf("expected truncation to block size, got %d", len(got))
	}
}

func TestInvalidAddr(t *testing.T) {
	d := newDevice(t)
	if _, err := d.ReadBlock(uint32(Count)); err != ErrInvalidAddr {
		t.Fatalf("expected ErrInvalidAddr, got %v", err)
	}
	if err := d.WriteBlock(uint32(Count), []byte("x")); err != ErrInvalidAddr {
		t.Fatalf("expected ErrInvalidAddr, got %v", err)
	}
}

func TestMultiBlockOrdering(t *testing.T) {
	d := newDevice(t)
	writes := []Write{
		{Addr: 40, Data: []byte("aaaa")},
		{Addr: 41, Data: []byte("bbbb")},
	}
	if err := d.WriteBlocks(writes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.ReadBlocks([]uint32{41, 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(got[:BlockSize], []byte("bbbb")) {
		t.Fatalf("expected first chunk to be block 41's payload")
	}
	if !bytes.HasPrefix(got[BlockSize:], []byte("aaaa")) {
		t.Fatalf("expected second chunk to be block 40's payload")
	}
}
