package command

import (
	"errors"
	"fmt"

	"github.com/virtfs/virtfs/simfs"
)

var loginPermission = rwx{read: true, write: true, execute: true}

// Login ensures "/home" and "/home/<uid>" exist (creating them as
// needed) and lands the caller's working directory there.
func Login(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	const homePath = "/home"
	if err := ensureDir(srv, homePath, 0); err != nil {
		return "Cannot login! Failed to set up home!\n", nil
	}

	path := fmt.Sprintf("%s/%d", homePath, ctx.UID)
	meta, err := srv.Metadata(path)
	switch {
	case err == nil:
		if !checkPermission(ctx.UID, meta, loginPermission) {
			if err := srv.RemoveDir(path); err != nil {
				return "Cannot login! Failed to set up home!\n", nil
			}
			if _, err := srv.CreateDir(path, ctx.UID); err != nil {
				return "Cannot login! Failed to set up home!\n", nil
			}
		}
	case isNotFound(err):
		if _, err := srv.CreateDir(path, ctx.UID); err != nil {
			return "Cannot login! Failed to set up home!\n", nil
		}
	default:
		return "Cannot login! Failed to set up home!\n", nil
	}

	ctx.WD = path
	return "", nil
}

func isNotFound(err error) bool {
	var fsErr *simfs.Error
	return errors.As(err, &fsErr) && fsErr.Kind == simfs.KindNotFound
}

// ensureDir makes sure path exists as a directory, creating it owned
// by uid if it is missing or replacing it if it currently exists as a
// file. An existing directory is kept whatever its owner.
func ensureDir(srv *simfs.Server, path string, uid uint8) error {
	meta, err := srv.Metadata(path)
	switch {
	case err == nil && meta.IsDir():
		return nil
	case err == nil:
		if err := srv.RemoveFile(path); err != nil {
			return err
		}
	case !isNotFound(err):
		return err
	}
	_, err = srv.CreateDir(path, uid)
	return err
}
