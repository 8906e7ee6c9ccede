package command

import (
	"fmt"
	"strings"

	"github.com/virtfs/virtfs/simfs"
	"github.com/virtfs/virtfs/util"
)

// Check is a read-only diagnostic: it verifies the superblock's magic
// bytes and hex-dumps the superblock and root inode records. It never
// repairs anything, and it does not inspect the bitmaps or any block
// chain.
func Check(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	raw, err := srv.ReadRawBlock(0)
	if err != nil {
		return "Cannot read block 0: " + err.Error(), nil
	}

	var out strings.Builder
	sb, err := srv.Superblock()
	if err != nil {
		fmt.Fprintf(&out, "superblock: INVALID (%v)\n", err)
		out.WriteString(util.DumpSuperblock(raw))
		return out.String(), nil
	}
	fmt.Fprintf(&out, "superblock: OK (inode_count=%d, max_file_size=%d)\n", sb.InodeCount, sb.MaxFileSize)
	out.WriteString(util.DumpSuperblock(raw))

	inodeBlock, err := srv.ReadRawBlock(sb.InodeOffset)
	if err != nil {
		fmt.Fprintf(&out, "root inode: cannot read (%v)\n", err)
		return out.String(), nil
	}
	out.WriteString(util.DumpInode(inodeBlock))
	return out.String(), nil
}
