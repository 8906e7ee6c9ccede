package command

import (
	"errors"

	"github.com/virtfs/virtfs/simfs"
)

// Touch creates an empty file at path, or (with -a) refreshes an
// existing one's timestamp.
func Touch(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: touch [-a] <path>", nil
	}

	updateOnly := args[0] == "-a"
	pathArgs := args
	if updateOnly {
		pathArgs = args[1:]
	}
	if len(pathArgs) != 1 {
		return "Usage: touch [-a] <path>", nil
	}
	abs := toAbs(ctx.WD, pathArgs[0])

	if updateOnly {
		meta, err := srv.Metadata(abs)
		if err != nil {
			return "Cannot find '" + pathArgs[0] + "'", nil
		}
		if err := meta.UpdateTimestamp(); err != nil {
			return "Cannot update timestamp of '" + pathArgs[0] + "'", nil
		}
		return "", nil
	}

	if _, err := srv.CreateFile(abs, ctx.UID); err != nil {
		var fsErr *simfs.Error
		if errors.As(err, &fsErr) && fsErr.Kind == simfs.KindExists {
			return "", nil
		}
		return "Cannot create '" + pathArgs[0] + "': " + err.Error(), nil
	}
	return "", nil
}
