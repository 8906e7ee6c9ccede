package command

import (
	"fmt"

	"github.com/virtfs/virtfs/simfs"
)

// Info reports the disk's layout, read from the live superblock.
func Info(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	sb, err := srv.Superblock()
	if err != nil {
		return "Cannot read superblock: " + err.Error(), nil
	}
	return fmt.Sprintf(
		"Disk layout\n"+
			"  block size:          %d\n"+
			"  inode count:         %d\n"+
			"  inode bitmap block:  %d\n"+
			"  inode table start:   %d\n"+
			"  data bitmap start:   %d\n"+
			"  data region start:   %d\n"+
			"  max file size:       %d bytes\n",
		sb.BlockSize, sb.InodeCount, sb.InodeBitmapOffset, sb.InodeOffset,
		sb.DataBitmapOffset, sb.DataOffset, sb.MaxFileSize,
	), nil
}
