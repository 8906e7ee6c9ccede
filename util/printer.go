// Package util provides hex-dump helpers for the check command's
// read-only diagnostics. Unlike a generic byte-slice dumper, each
// exported function here is scoped to one of this repository's
// fixed-width on-disk records (the 30-byte superblock, the 64-byte
// inode) and labels its dump accordingly.
package util

import (
	"fmt"
	"strings"
)

// dumpRecord renders raw as rows of bytesPerRow hex bytes followed by
// their ASCII gutter, each row prefixed with its byte offset within
// the record — an xxd-style rendering, but scoped to one fixed-width
// record rather than an arbitrary slice.
func dumpRecord(label string, raw []byte, bytesPerRow int) string {
	out := fmt.Sprintf("%s (%d bytes):\n", label, len(raw))
	var row strings.Builder
	var ascii []byte
	flush := func() {
		if row.Len() == 0 {
			return
		}
		out += row.String() + "  " + string(ascii) + "\n"
		row.Reset()
		ascii = ascii[:0]
	}
	for i, b := range raw {
		if i%bytesPerRow == 0 {
			flush()
			row.WriteString(fmt.Sprintf("%04x:", i))
		}
		row.WriteString(fmt.Sprintf(" %02x", b))
		if b < 32 || b > 126 {
			ascii = append(ascii, '.')
		} else {
			ascii = append(ascii, b)
		}
	}
	flush()
	return out
}

// DumpSuperblock hex-dumps the on-disk superblock record: the leading
// magic byte, layout offsets and sizes, and trailing magic byte.
func DumpSuperblock(raw []byte) string {
	return dumpRecord("superblock", trim(raw, 30), 10)
}

// DumpInode hex-dumps a single 64-byte inode record: uid, mode, size,
// timestamp, direct/indirect/double-indirect block addresses, and the
// reserved tail.
func DumpInode(raw []byte) string {
	return dumpRecord("inode", trim(raw, 64), 16)
}

// trim returns raw truncated to at most n bytes, for callers that were
// handed a whole disk block but only want one record's worth of it.
func trim(raw []byte, n int) []byte {
	if len(raw) < n {
		return raw
	}
	return raw[:n]
}
