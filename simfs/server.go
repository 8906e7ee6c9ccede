// Package simfs implements the simulated disk filesystem: the on-disk
// layout (superblock, bitmaps, inode table, directories, file block
// chains) and the single-threaded serializer that arbitrates access to
// it for many concurrent callers.
package simfs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/virtfs/virtfs/bitmap"
	"github.com/virtfs/virtfs/block"
	"github.com/virtfs/virtfs/clock"
)

// Server is the single-threaded filesystem core: one goroutine owns
// core (the block device and clock) and the descriptor table. Every
// exported method builds a one-shot reply channel, submits a closure
// on reqCh, and blocks for the reply — the only way any caller
// touches the disk.
type Server struct {
	core  core
	descs *descriptorTable
	log   *logrus.Logger

	reqCh   chan func()
	started chan error
}

// NewServer builds a Server bound to the disk image at diskPath. It
// does not touch the disk until Start runs.
func NewServer(diskPath string, clk clock.Clock, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		core:    core{dev: block.Open(diskPath), clk: clk},
		descs:   newDescriptorTable(log),
		log:     log,
		reqCh:   make(chan func()),
		started: make(chan error, 1),
	}
}

// Start launches the serializer goroutine: it lays out or validates
// the disk image, reports on the startup barrier, then drains reqCh
// in submission order until ctx is cancelled. Callers MUST receive
// from Started before issuing any request.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.initDisk(); err != nil {
			s.started <- err
			return
		}
		s.started <- nil
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-s.reqCh:
				job()
			}
		}
	}()
}

// Started is the startup barrier: it carries nil once init_disk has
// succeeded and the worker is ready for requests, or the
// initialisation error otherwise.
func (s *Server) Started() <-chan error {
	return s.started
}

func (s *Server) now() time.Time { return s.core.clk.Now() }

type reply[T any] struct {
	val T
	err error
}

// submit runs fn on the serializer goroutine and returns its result.
// It is the only bridge between caller goroutines and s.core.
func submit[T any](s *Server, fn func() (T, error)) (T, error) {
	repCh := make(chan reply[T], 1)
	s.reqCh <- func() {
		v, err := fn()
		repCh <- reply[T]{val: v, err: err}
	}
	r := <-repCh
	return r.val, r.err
}

// initDisk lays out a fresh disk image, or validates an existing
// one's superblock.
func (s *Server) initDisk() error {
	if err := s.core.dev.Init(); err != nil {
		return wrapIO(err)
	}
	block0, err := s.core.dev.ReadBlock(0)
	if err != nil {
		return wrapIO(err)
	}
	if looksInitialised(block0) {
		_, err := decodeSuperblock(block0)
		return err
	}
	return s.layout()
}

// layout writes a fresh superblock, zeroes both bitmaps, and creates
// the root directory at inode address 0 with "." and ".." both
// pointing to itself.
func (s *Server) layout() error {
	sb := defaultSuperblock()
	if err := wrapIO(s.core.dev.WriteBlock(0, sb.encode())); err != nil {
		return err
	}
	if err := wrapIO(s.core.dev.WriteBlock(inodeBitmapBlock, bitmap.New(inodeBitmapBits).ToBytes())); err != nil {
		return err
	}
	if err := s.core.saveDataBitmap(bitmap.New(totalDataBlocks)); err != nil {
		return err
	}

	rootAddr, _, err := s.core.allocInode(0, true)
	if err != nil {
		return err
	}
	if rootAddr != rootInodeAddr {
		return newError(KindCorrupted, "root inode did not land at address 0")
	}
	if err := s.core.addDirEntry(rootAddr, rootAddr, "."); err != nil {
		return err
	}
	return s.core.addDirEntry(rootAddr, rootAddr, "..")
}

// ReadRawBlock returns the raw bytes of a single disk block, for
// diagnostic tools (the check command) that want to inspect on-disk
// structures directly rather than through a decoded view.
func (s *Server) ReadRawBlock(addr uint32) ([]byte, error) {
	return submit(s, func() ([]byte, error) {
		return s.core.dev.ReadBlock(addr)
	})
}

// Superblock returns the disk's current superblock.
func (s *Server) Superblock() (Superblock, error) {
	return submit(s, func() (Superblock, error) {
		raw, err := s.core.dev.ReadBlock(0)
		if err != nil {
			return Superblock{}, wrapIO(err)
		}
		return decodeSuperblock(raw)
	})
}

// Metadata resolves path and returns a snapshot of its inode.
func (s *Server) Metadata(path string) (Metadata, error) {
	return submit(s, func() (Metadata, error) {
		addr, ino, err := s.core.resolve(path)
		if err != nil {
			return Metadata{}, err
		}
		return Metadata{addr: addr, ino: ino, srv: s}, nil
	})
}

// updateInode persists a caller-modified inode snapshot.
func (s *Server) updateInode(addr uint32, ino Inode) error {
	_, err := submit(s, func() (struct{}, error) {
		return struct{}{}, s.core.saveInode(addr, ino)
	})
	return err
}

// OpenFile resolves path, rejects directories, and hands out a
// refcounted FileDescriptor.
func (s *Server) OpenFile(path string) (*FileDescriptor, error) {
	return submit(s, func() (*FileDescriptor, error) {
		addr, ino, err := s.core.resolve(path)
		if err != nil {
			return nil, err
		}
		if ino.isDir() {
			return nil, newError(KindNotFileButDir, "not a file: "+path)
		}
		if err := s.descs.acquire(addr, descFile); err != nil {
			return nil, err
		}
		return &FileDescriptor{Addr: addr, srv: s}, nil
	})
}

// CreateFile creates a new regular file at path owned by uid.
func (s *Server) CreateFile(path string, uid uint8) (uint32, error) {
	addr, err := submit(s, func() (uint32, error) {
		addr, _, err := s.core.createFile(path, uid)
		return addr, err
	})
	return addr, err
}

// RemoveFile removes path, failing with ErrOccupied if it has live
// descriptors.
func (s *Server) RemoveFile(path string) error {
	_, err := submit(s, func() (struct{}, error) {
		addr, _, err := s.core.resolve(path)
		if err != nil {
			return struct{}{}, err
		}
		if s.descs.occupied(addr) {
			return struct{}{}, newError(KindOccupied, "file is open: "+path)
		}
		return struct{}{}, s.core.removeFileRaw(path)
	})
	return err
}

// ReadFile returns the payload of the file backing an open
// descriptor's inode address.
func (s *Server) ReadFile(addr uint32) ([]byte, error) {
	return submit(s, func() ([]byte, error) {
		return s.core.readFile(addr)
	})
}

// WriteFile replaces the payload of the file at addr.
func (s *Server) WriteFile(addr uint32, buf []byte) error {
	_, err := submit(s, func() (struct{}, error) {
		return struct{}{}, s.core.writeFile(addr, buf)
	})
	return err
}

// OpenDir resolves path, rejects files, and hands out a refcounted
// DirDescriptor.
func (s *Server) OpenDir(path string) (*DirDescriptor, error) {
	return submit(s, func() (*DirDescriptor, error) {
		addr, ino, err := s.core.resolve(path)
		if err != nil {
			return nil, err
		}
		if !ino.isDir() {
			return nil, newError(KindNotDirButFile, "not a directory: "+path)
		}
		if err := s.descs.acquire(addr, descDir); err != nil {
			return nil, err
		}
		return &DirDescriptor{Addr: addr, srv: s}, nil
	})
}

// CreateDir creates a new directory at path owned by uid.
func (s *Server) CreateDir(path string, uid uint8) (uint32, error) {
	addr, err := submit(s, func() (uint32, error) {
		addr, _, err := s.core.createDir(path, uid)
		return addr, err
	})
	return addr, err
}

// RemoveDir removes path, failing with ErrOccupied if it has live
// descriptors or with ErrOccupied if it is non-empty.
func (s *Server) RemoveDir(path string) error {
	_, err := submit(s, func() (struct{}, error) {
		addr, _, err := s.core.resolve(path)
		if err != nil {
			return struct{}{}, err
		}
		if s.descs.occupied(addr) {
			return struct{}{}, newError(KindOccupied, "directory is open: "+path)
		}
		return struct{}{}, s.core.removeDirRaw(path)
	})
	return err
}

// ReadDir returns the entries of the directory at inode address addr.
func (s *Server) ReadDir(addr uint32) ([]DirEntry, error) {
	return submit(s, func() ([]DirEntry, error) {
		return s.core.readDir(addr)
	})
}

// DirAddEntry adds an entry to the directory at dirAddr.
func (s *Server) DirAddEntry(dirAddr, entryInode uint32, name string) error {
	_, err := submit(s, func() (struct{}, error) {
		return struct{}{}, s.core.addDirEntry(dirAddr, entryInode, name)
	})
	return err
}

// DirRemoveEntry removes entryInode's entry from the directory at
// dirAddr.
func (s *Server) DirRemoveEntry(dirAddr, entryInode uint32) error {
	_, err := submit(s, func() (struct{}, error) {
		return struct{}{}, s.core.removeDirEntry(dirAddr, entryInode)
	})
	return err
}
