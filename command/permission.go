package command

import "github.com/virtfs/virtfs/simfs"

// rwx is a requested permission triple (read, write, execute).
type rwx struct {
	read, write, execute bool
}

// checkPermission reports whether uid may act on meta per want, using
// the owner's bits when uid matches meta's owner and the "other" bits
// otherwise.
func checkPermission(uid uint8, meta simfs.Metadata, want rwx) bool {
	ownerBits, otherBits := meta.Permission()
	bits := otherBits
	if uid == meta.Owner() {
		bits = ownerBits
	}
	if want.read && bits&0b100 == 0 {
		return false
	}
	if want.write && bits&0b010 == 0 {
		return false
	}
	if want.execute && bits&0b001 == 0 {
		return false
	}
	return true
}
