package simfs

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type descKind int

const (
	descFile descKind = iota
	descDir
)

type descEntry struct {
	refcount int
	kind     descKind
}

// descriptorTable maps inode address to a live refcount and kind. An
// entry exists iff at least one live descriptor references that
// inode.
//
// The mutex is defensive: in this design only the single FS serializer
// goroutine and descriptor Close() calls ever touch the table, so it
// is never really contended. A panic mid-mutation is recovered in
// place and logged rather than left to poison future callers, the
// same defer/recover guard a decoder uses around a parse that must
// never take the whole process down with it.
type descriptorTable struct {
	mu      sync.Mutex
	entries map[uint32]*descEntry
	log     *logrus.Logger
}

func newDescriptorTable(log *logrus.Logger) *descriptorTable {
	return &descriptorTable{entries: make(map[uint32]*descEntry), log: log}
}

func (t *descriptorTable) acquire(addr uint32, kind descKind) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorf("descriptor table: recovered from panic during acquire: %v", r)
			err = newError(KindInner, "descriptor table panic recovered")
		}
	}()
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[addr]
	if !ok {
		t.entries[addr] = &descEntry{refcount: 1, kind: kind}
		return nil
	}
	if e.kind != kind {
		if kind == descFile {
			return newError(KindNotFileButDir, "target is a directory")
		}
		return newError(KindNotDirButFile, "target is a file")
	}
	e.refcount++
	return nil
}

func (t *descriptorTable) release(addr uint32) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorf("descriptor table: recovered from panic during release: %v", r)
		}
	}()
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[addr]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(t.entries, addr)
	}
}

// occupied reports whether addr has any live descriptor; destructive
// operations (remove_file, remove_dir) must reject when true.
func (t *descriptorTable) occupied(addr uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[addr]
	return ok
}

// FileDescriptor is a live handle to an open file's inode. Close
// drops the descriptor table's refcount; it never touches the on-disk
// inode.
type FileDescriptor struct {
	Addr uint32
	srv  *Server
}

func (d *FileDescriptor) Close() error {
	d.srv.descs.release(d.Addr)
	return nil
}

// DirDescriptor is the directory counterpart of FileDescriptor.
type DirDescriptor struct {
	Addr uint32
	srv  *Server
}

func (d *DirDescriptor) Close() error {
	d.srv.descs.release(d.Addr)
	return nil
}
