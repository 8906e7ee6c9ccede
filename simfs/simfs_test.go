package simfs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/virtfs/virtfs/clock"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	srv := NewServer(filepath.Join(t.TempDir(), "the_disk"), clock.Fixed(time.Unix(1700000000, 0)), log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv.Start(ctx)
	require.NoError(t, <-srv.Started())
	return srv
}

func TestRootIdentity(t *testing.T) {
	srv := newTestServer(t)

	meta, err := srv.Metadata("/")
	require.NoError(t, err)
	require.True(t, meta.IsDir())
	require.EqualValues(t, 0, meta.Owner())

	entries, err := srv.ReadDir(rootInodeAddr)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, uint32(rootInodeAddr), entries[0].Inode)
	require.Equal(t, ".", entries[0].Name)
	require.Equal(t, uint32(rootInodeAddr), entries[1].Inode)
	require.Equal(t, "..", entries[1].Name)
}

func TestCreateDirThenReadDir(t *testing.T) {
	srv := newTestServer(t)

	addr, err := srv.CreateDir("/a", 7)
	require.NoError(t, err)

	entries, err := srv.ReadDir(addr)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, ".", entries[0].Name)
	require.Equal(t, addr, entries[0].Inode)
	require.Equal(t, "..", entries[1].Name)
	require.Equal(t, uint32(rootInodeAddr), entries[1].Inode)
}

func TestCreateWriteReadFile(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CreateDir("/a", 7)
	require.NoError(t, err)
	_, err = srv.CreateFile("/a/f", 7)
	require.NoError(t, err)

	fd, err := srv.OpenFile("/a/f")
	require.NoError(t, err)
	require.NoError(t, srv.WriteFile(fd.Addr, []byte("hello")))

	data, err := srv.ReadFile(fd.Addr)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
	require.NoError(t, fd.Close())
}

func TestRemoveFileWhileOpenIsOccupied(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CreateFile("/f", 7)
	require.NoError(t, err)

	fd1, err := srv.OpenFile("/f")
	require.NoError(t, err)
	fd2, err := srv.OpenFile("/f")
	require.NoError(t, err)

	err = srv.RemoveFile("/f")
	require.ErrorIs(t, err, ErrOccupied)

	require.NoError(t, fd1.Close())
	err = srv.RemoveFile("/f")
	require.ErrorIs(t, err, ErrOccupied)

	require.NoError(t, fd2.Close())
	require.NoError(t, srv.RemoveFile("/f"))
}

func TestWriteFileSpanningIndirectBlock(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CreateFile("/big", 1)
	require.NoError(t, err)
	fd, err := srv.OpenFile("/big")
	require.NoError(t, err)

	buf := make([]byte, 9000)
	for i := range buf {
		buf[i] = byte(i % 251)
		if buf[i] == 0 {
			buf[i] = 1
		}
	}
	require.NoError(t, srv.WriteFile(fd.Addr, buf))

	got, err := srv.ReadFile(fd.Addr)
	require.NoError(t, err)
	require.Equal(t, buf, got)
}

func TestReadFileIgnoresEmbeddedNULBeforeLastBlock(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CreateFile("/f", 1)
	require.NoError(t, err)
	fd, err := srv.OpenFile("/f")
	require.NoError(t, err)

	buf := make([]byte, 2500)
	for i := range buf {
		buf[i] = byte(i % 251)
		if buf[i] == 0 {
			buf[i] = 1
		}
	}
	buf[10] = 0
	buf[1200] = 0
	require.NoError(t, srv.WriteFile(fd.Addr, buf))

	got, err := srv.ReadFile(fd.Addr)
	require.NoError(t, err)
	require.Equal(t, buf, got)
}

func TestFileSizeExcludesEOFMarker(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CreateFile("/f", 1)
	require.NoError(t, err)
	fd, err := srv.OpenFile("/f")
	require.NoError(t, err)
	require.NoError(t, srv.WriteFile(fd.Addr, []byte("hello")))
	require.NoError(t, fd.Close())

	meta, err := srv.Metadata("/f")
	require.NoError(t, err)
	require.EqualValues(t, 5, meta.Size())
}

func TestRemoveDirDoesNotRecurse(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CreateDir("/a", 1)
	require.NoError(t, err)
	_, err = srv.CreateFile("/a/f", 1)
	require.NoError(t, err)

	err = srv.RemoveDir("/a")
	require.ErrorIs(t, err, ErrOccupied)

	err = srv.RemoveFile("/a/f")
	require.NoError(t, err)
	require.NoError(t, srv.RemoveDir("/a"))

	_, err = srv.Metadata("/a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPathIdempotence(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.CreateDir("/a", 1)
	require.NoError(t, err)

	m1, err := srv.Metadata("/a")
	require.NoError(t, err)
	m2, err := srv.Metadata("/a/")
	require.NoError(t, err)
	require.Equal(t, m1.addr, m2.addr)
}

func TestCreateRemoveFileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	before, err := srv.Superblock()
	require.NoError(t, err)

	_, err = srv.CreateFile("/f", 3)
	require.NoError(t, err)
	require.NoError(t, srv.RemoveFile("/f"))

	after, err := srv.Superblock()
	require.NoError(t, err)
	require.Equal(t, before, after)

	_, err = srv.Metadata("/f")
	require.ErrorIs(t, err, ErrNotFound)
}
