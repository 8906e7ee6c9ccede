package command

import "github.com/virtfs/virtfs/simfs"

// Cd changes ctx.WD to path, resolved against the current directory,
// after checking it exists and is a directory.
func Cd(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	if len(args) != 1 {
		return "Usage: cd <path>", nil
	}
	abs := toAbs(ctx.WD, args[0])
	meta, err := srv.Metadata(abs)
	if err != nil {
		return "No such directory: " + args[0], nil
	}
	if !meta.IsDir() {
		return "Not a directory: " + args[0], nil
	}
	ctx.WD = abs
	return "", nil
}
