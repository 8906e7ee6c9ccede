package command

import (
	"flag"

	"github.com/virtfs/virtfs/simfs"
)

// Rm removes a file, or (with -r) a directory.
func Rm(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	recursive := fs.Bool("r", false, "remove a directory")
	if err := fs.Parse(args); err != nil {
		return err.Error(), nil
	}
	paths := fs.Args()
	if len(paths) != 1 {
		return "Usage: rm [-r] <path>", nil
	}

	abs := toAbs(ctx.WD, paths[0])
	meta, err := srv.Metadata(abs)
	if err != nil {
		return "Cannot find '" + paths[0] + "'", nil
	}

	switch {
	case meta.IsDir() && !*recursive:
		return "Cannot delete '" + paths[0] + "': is a directory", nil
	case meta.IsDir():
		if err := srv.RemoveDir(abs); err != nil {
			return "Cannot delete '" + paths[0] + "': " + err.Error(), nil
		}
	default:
		if err := srv.RemoveFile(abs); err != nil {
			return "Cannot delete '" + paths[0] + "': " + err.Error(), nil
		}
	}
	return "", nil
}
