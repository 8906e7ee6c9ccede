package clock

import (
	"os"
	"testing"
	"time"
)

func TestSystemHonorsSourceDateEpoch(t *testing.T) {
	t.Setenv("SOURCE_DATE_EPOCH", "1700000000")
	got := System{}.Now()
	want := time.Unix(1700000000, 0).UTC()
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSystemFallsBackToNow(t *testing.T) {
	os.Unsetenv("SOURCE_DATE_EPOCH")
	before := time.Now().UTC()
	got := System{}.Now()
	after := time.Now().UTC()
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected Now() between %v and %v, got %v", before, after, got)
	}
}

func TestFixed(t *testing.T) {
	want := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	f := Fixed(want)
	if got := f.Now(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
