package simfs

import "time"

// Metadata is a point-in-time snapshot of an inode, paired with enough
// context to push a mutation back through the owning Server.
// Accessors read the snapshot only; mutators send an UpdateInode
// request and block for the acknowledgement.
type Metadata struct {
	addr uint32
	ino  Inode
	srv  *Server
}

func (m Metadata) IsDir() bool  { return m.ino.isDir() }
func (m Metadata) Owner() uint8 { return m.ino.UID }
func (m Metadata) Size() uint32 { return m.ino.Size }

// Permission returns (owner rwx, other rwx) as three-bit masks
// (4=r, 2=w, 1=x), decoded from the mode byte: bits 3-5 are the owner
// triad, bits 0-2 the other triad, bit 6 the directory flag.
func (m Metadata) Permission() (ownerRWX, otherRWX uint8) {
	mode := m.ino.Mode
	ownerRWX = (mode >> 3) & 0b111
	otherRWX = mode & 0b111
	return ownerRWX, otherRWX
}

// Timestamp decodes the inode's stored Unix-seconds timestamp in UTC
// as (month0, day, hour, minute).
func (m Metadata) Timestamp() (month0, day, hour, minute int) {
	t := time.Unix(int64(m.ino.Timestamp), 0).UTC()
	return int(t.Month()) - 1, t.Day(), t.Hour(), t.Minute()
}

// SetPermission rewrites the owner/other rwx bits (the dir bit is
// preserved) and writes the inode through the server.
func (m *Metadata) SetPermission(ownerRWX, otherRWX uint8) error {
	mode := m.ino.Mode & modeDir
	mode |= (ownerRWX & 0b111) << 3
	mode |= otherRWX & 0b111
	m.ino.Mode = mode
	if err := m.srv.updateInode(m.addr, m.ino); err != nil {
		return err
	}
	return nil
}

// UpdateTimestamp stamps the inode with the server's current time and
// writes it through.
func (m *Metadata) UpdateTimestamp() error {
	m.ino.Timestamp = uint32(m.srv.now().Unix())
	return m.srv.updateInode(m.addr, m.ino)
}
