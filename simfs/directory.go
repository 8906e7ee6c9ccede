package simfs

import (
	"encoding/binary"
	"strings"
)

// DirEntry is a decoded 64-byte directory record.
type DirEntry struct {
	Inode uint32
	Name  string
}

func decodeDirEntry(b []byte) DirEntry {
	inode := binary.BigEndian.Uint32(b[0:4])
	name := strings.TrimRight(string(b[4:4+dirNameLen]), "\x00")
	return DirEntry{Inode: inode, Name: name}
}

func encodeDirEntry(e DirEntry) []byte {
	b := make([]byte, dirEntrySize)
	binary.BigEndian.PutUint32(b[0:4], e.Inode)
	copy(b[4:4+dirNameLen], []byte(e.Name))
	return b
}

func isTerminator(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func findEntry(entries []DirEntry, name string) (uint32, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Inode, true
		}
	}
	return 0, false
}

// readDir loads dirAddr's inode, rejects non-directories, and parses
// its payload into entries up to (not including) the terminator
// record.
func (c *core) readDir(dirAddr uint32) ([]DirEntry, error) {
	ino, err := c.loadInode(dirAddr)
	if err != nil {
		return nil, err
	}
	if !ino.isDir() {
		return nil, newError(KindNotDirButFile, "not a directory")
	}
	raw, err := c.readInodePayload(ino)
	if err != nil {
		return nil, err
	}
	var entries []DirEntry
	for off := 0; off+dirEntrySize <= len(raw); off += dirEntrySize {
		rec := raw[off : off+dirEntrySize]
		if isTerminator(rec) {
			break
		}
		entries = append(entries, decodeDirEntry(rec))
	}
	return entries, nil
}

// writeDirEntries serializes entries plus a terminator record and
// rewrites dirAddr's entire payload.
func (c *core) writeDirEntries(dirAddr uint32, ino Inode, entries []DirEntry) error {
	buf := make([]byte, 0, (len(entries)+1)*dirEntrySize)
	for _, e := range entries {
		buf = append(buf, encodeDirEntry(e)...)
	}
	buf = append(buf, make([]byte, dirEntrySize)...)
	return c.writeInodePayload(dirAddr, &ino, buf, uint32(len(buf)))
}

// addDirEntry appends (entryInode, name) to dirAddr's directory,
// rejecting an exact duplicate.
func (c *core) addDirEntry(dirAddr uint32, entryInode uint32, name string) error {
	ino, err := c.loadInode(dirAddr)
	if err != nil {
		return err
	}
	entries, err := c.readDir(dirAddr)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Inode == entryInode && e.Name == name {
			return newError(KindExists, "directory entry already exists: "+name)
		}
	}
	entries = append(entries, DirEntry{Inode: entryInode, Name: name})
	return c.writeDirEntries(dirAddr, ino, entries)
}

// removeDirEntry drops the first entry referencing entryInode.
func (c *core) removeDirEntry(dirAddr uint32, entryInode uint32) error {
	ino, err := c.loadInode(dirAddr)
	if err != nil {
		return err
	}
	entries, err := c.readDir(dirAddr)
	if err != nil {
		return err
	}
	idx := -1
	for i, e := range entries {
		if e.Inode == entryInode {
			idx = i
			break
		}
	}
	if idx < 0 {
		return newError(KindNotFound, "directory entry not found")
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	return c.writeDirEntries(dirAddr, ino, entries)
}
