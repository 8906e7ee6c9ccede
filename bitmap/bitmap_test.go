package bitmap

import "testing"

func TestSetClearCheck(t *testing.T) {
	bm := New(128)
	set, err := bm.Check(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set {
		t.Fatalf("expected bit 5 to start clear")
	}
	if err := bm.Set(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, err = bm.Check(5)
	if err != nil || !set {
		t.Fatalf("expected bit 5 to be set, got %v, %v", set, err)
	}
	if err := bm.Clear(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, _ = bm.Check(5)
	if set {
		t.Fatalf("expected bit 5 to be clear again")
	}
}

func TestOutOfRange(t *testing.T) {
	bm := New(64)
	if _, err := bm.Check(64); err == nil {
		t.Fatalf("expected error for position == capacity")
	}
	if _, err := bm.Check(-1); err == nil {
		t.Fatalf("expected error for negative position")
	}
	if err := bm.Set(1000); err == nil {
		t.Fatalf("expected error for out-of-range Set")
	}
}

func TestNextFree(t *testing.T) {
	bm := New(70)
	for i := 0; i < 64; i++ {
		if err := bm.Set(i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := bm.NextFree(); got != 64 {
		t.Fatalf("expected next free bit 64 (crossing word boundary), got %d", got)
	}
	for i := 64; i < 70; i++ {
		if err := bm.Set(i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := bm.NextFree(); got != -1 {
		t.Fatalf("expected saturated map to return -1, got %d", got)
	}
}

func TestNextFreeFrom(t *testing.T) {
	bm := New(70)
	for i := 0; i < 40; i++ {
		if err := bm.Set(i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := bm.NextFreeFrom(0); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
	if got := bm.NextFreeFrom(50); got != 50 {
		t.Fatalf("expected resuming scan to return 50 itself, got %d", got)
	}
	for i := 40; i < 70; i++ {
		if err := bm.Set(i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := bm.NextFreeFrom(0); got != -1 {
		t.Fatalf("expected saturated map to return -1, got %d", got)
	}
	if got := bm.NextFreeFrom(-5); got != -1 {
		t.Fatalf("expected negative start to clamp to 0 and still return -1 on full map, got %d", got)
	}
}

func TestRestUsable(t *testing.T) {
	bm := New(10)
	if got := bm.RestUsable(); got != 10 {
		t.Fatalf("expected 10 usable, got %d", got)
	}
	_ = bm.Set(0)
	_ = bm.Set(9)
	if got := bm.RestUsable(); got != 8 {
		t.Fatalf("expected 8 usable, got %d", got)
	}
}

func TestRoundTripBytes(t *testing.T) {
	bm := New(128)
	_ = bm.Set(3)
	_ = bm.Set(64)
	_ = bm.Set(127)
	raw := bm.ToBytes()
	bm2 := FromBytes(raw, 128)
	for _, pos := range []int{3, 64, 127} {
		set, err := bm2.Check(pos)
		if err != nil || !set {
			t.Fatalf("expected bit %d to survive round trip, got %v, %v", pos, set, err)
		}
	}
	if set, _ := bm2.Check(5); set {
		t.Fatalf("expected bit 5 to remain clear after round trip")
	}
}
