// Package clock decouples "what time is it" from the callers that need
// to stamp an inode. The simulated filesystem core never reads the wall
// clock directly; the simfs server is handed a Clock at construction
// time instead.
package clock

import (
	"os"
	"strconv"
	"time"
)

// Clock returns the current time. Callers keep only its whole Unix
// seconds, matching the on-disk inode timestamp field's u32
// representation.
type Clock interface {
	Now() time.Time
}

// System is the production Clock. It honors SOURCE_DATE_EPOCH, a
// reproducible-build convention, so a fixed disk image can be
// regenerated byte-for-byte in CI.
type System struct{}

// Now returns time.Now().UTC(), or the time encoded in SOURCE_DATE_EPOCH
// if that environment variable is set to a valid Unix timestamp.
func (System) Now() time.Time {
	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" {
		if seconds, err := strconv.ParseInt(epoch, 10, 64); err == nil {
			return time.Unix(seconds, 0).UTC()
		}
	}
	return time.Now().UTC()
}

// Fixed is a Clock that always returns the same instant; tests use it
// so inode timestamps are deterministic.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
