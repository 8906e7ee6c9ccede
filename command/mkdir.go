package command

import (
	"errors"

	"github.com/virtfs/virtfs/simfs"
)

// Mkdir creates a directory at path.
func Mkdir(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	if len(args) != 1 {
		return "Usage: mkdir <path>", nil
	}
	abs := toAbs(ctx.WD, args[0])
	if _, err := srv.CreateDir(abs, ctx.UID); err != nil {
		var fsErr *simfs.Error
		if errors.As(err, &fsErr) && fsErr.Kind == simfs.KindExists {
			return "Cannot create '" + args[0] + "': already exists", nil
		}
		return "Cannot create '" + args[0] + "': " + err.Error(), nil
	}
	return "", nil
}
