// Package block provides bounded random read/write access to the
// simulated disk image, in fixed 1 KiB units. It is the only package
// that ever opens the on-disk file; everything above it (bitmap layout,
// superblock, inodes, directories) addresses the disk purely in terms
// of block numbers.
//
// The package separates "a file" from "the operations a disk-like
// thing supports", collapsed to the single concern this filesystem
// needs: no partition sub-windows, no device ioctls, just a plain
// host file treated as an array of blocks.
package block

import (
	"errors"
	"fmt"
	"os"
)

// Size is the fixed size of the simulated disk image, in bytes.
const Size int64 = 128 * 1024 * 1024

// BlockSize is the fixed size of one addressable block, in bytes.
const BlockSize = 1024

// Count is the number of blocks in the disk image.
const Count = Size / BlockSize

// ErrInvalidAddr is returned for any block address outside [0, Count).
var ErrInvalidAddr = errors.New("block: address out of range")

// pinMarker is written just past the end of the image after every
// successful write batch, so tools that truncate trailing NUL runs
// (some editors, some transfer tools) can't silently shrink the file
// out from under the layout.
var pinMarker = [2]byte{0x01, 0x00}

// Device is a fixed-size disk image backed by a host file, addressed in
// BlockSize-byte blocks. Reads and writes each open the file anew: the
// disk file is never held open across requests.
type Device struct {
	path string
}

// Write is one (address, payload) pair for WriteBlocks.
type Write struct {
	Addr uint32
	Data []byte
}

// Open returns a Device bound to path. It does not touch the file;
// Init is what creates or validates it.
func Open(path string) *Device {
	return &Device{path: path}
}

// Init ensures the backing file exists and holds at least Size bytes,
// (re)creating it as a sparse Size-byte image, followed by the pin
// marker just past its end, if it is missing or undersized. It
// never inspects the file's contents; that is the filesystem layer's
// job (magic-byte detection drives re-initialisation, not block.Device).
func (d *Device) Init() error {
	info, err := os.Stat(d.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return d.create()
	case err != nil:
		return err
	case info.Size() < Size:
		return d.create()
	default:
		return nil
	}
}

func (d *Device) create() error {
	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("block: create %s: %w", d.path, err)
	}
	defer f.Close()
	if err := f.Truncate(Size); err != nil {
		return fmt.Errorf("block: truncate %s: %w", d.path, err)
	}
	if _, err := f.WriteAt(pinMarker[:], Size+1); err != nil {
		return fmt.Errorf("block: pin size of %s: %w", d.path, err)
	}
	return nil
}

// ReadBlocks reads the blocks at addrs, in order, returning one
// BlockSize-byte chunk per address concatenated together.
func (d *Device) ReadBlocks(addrs []uint32) ([]byte, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make([]byte, len(addrs)*BlockSize)
	for i, addr := range addrs {
		if int64(addr) >= Count {
			return nil, ErrInvalidAddr
		}
		if _, err := f.ReadAt(out[i*BlockSize:(i+1)*BlockSize], int64(addr)*BlockSize); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadBlock is a convenience wrapper around ReadBlocks for a single address.
func (d *Device) ReadBlock(addr uint32) ([]byte, error) {
	return d.ReadBlocks([]uint32{addr})
}

// WriteBlocks writes each entry of writes at its block address. A
// payload shorter than BlockSize is padded with a single trailing NUL
// plus zero fill for the rest of the block — callers only rely on the
// NUL as the in-band EOF marker, never on specific tail content. A
// payload of BlockSize bytes or longer is truncated to BlockSize.
// After the whole batch succeeds, the pin marker is rewritten to keep
// the file size from drifting.
func (d *Device) WriteBlocks(writes []Write) error {
	f, err := os.OpenFile(d.path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, w := range writes {
		if int64(w.Addr) >= Count {
			return ErrInvalidAddr
		}
		payload := make([]byte, BlockSize)
		n := copy(payload, w.Data)
		if n < BlockSize {
			payload[n] = 0
		}
		if _, err := f.WriteAt(payload, int64(w.Addr)*BlockSize); err != nil {
			return err
		}
	}
	if _, err := f.WriteAt(pinMarker[:], Size+1); err != nil {
		return err
	}
	return nil
}

// WriteBlock is a convenience wrapper around WriteBlocks for a single
// (address, payload) pair.
func (d *Device) WriteBlock(addr uint32, data []byte) error {
	return d.WriteBlocks([]Write{{Addr: addr, Data: data}})
}
