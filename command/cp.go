package command

import (
	"errors"
	"flag"

	"github.com/virtfs/virtfs/simfs"
)

// Cp copies a file from source to dest within the simulated
// filesystem, or (with -r) a directory tree.
func Cp(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	fs := flag.NewFlagSet("cp", flag.ContinueOnError)
	recursive := fs.Bool("r", false, "copy a directory")
	if err := fs.Parse(args); err != nil {
		return err.Error(), nil
	}
	paths := fs.Args()
	if len(paths) != 2 {
		return "Usage: cp [-r] <source> <dest>", nil
	}

	src := toAbs(ctx.WD, paths[0])
	dst := toAbs(ctx.WD, paths[1])

	meta, err := srv.Metadata(src)
	if err != nil {
		return "Cannot find '" + paths[0] + "'", nil
	}

	if meta.IsDir() {
		if !*recursive {
			return "Cannot copy '" + paths[0] + "': is a directory", nil
		}
		if err := copyDir(srv, ctx, src, dst); err != nil {
			return "Cannot copy '" + paths[0] + "': " + err.Error(), nil
		}
		return "", nil
	}

	if err := copyFile(srv, ctx, src, dst); err != nil {
		return "Cannot copy '" + paths[0] + "': " + err.Error(), nil
	}
	return "", nil
}

func copyFile(srv *simfs.Server, ctx *Context, src, dst string) error {
	srcFd, err := srv.OpenFile(src)
	if err != nil {
		return err
	}
	defer srcFd.Close()
	data, err := srv.ReadFile(srcFd.Addr)
	if err != nil {
		return err
	}

	if _, err := srv.CreateFile(dst, ctx.UID); err != nil && !isExists(err) {
		return err
	}
	dstFd, err := srv.OpenFile(dst)
	if err != nil {
		return err
	}
	defer dstFd.Close()
	return srv.WriteFile(dstFd.Addr, data)
}

func copyDir(srv *simfs.Server, ctx *Context, src, dst string) error {
	if _, err := srv.CreateDir(dst, ctx.UID); err != nil && !isExists(err) {
		return err
	}
	srcDd, err := srv.OpenDir(src)
	if err != nil {
		return err
	}
	defer srcDd.Close()
	entries, err := srv.ReadDir(srcDd.Addr)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		childSrc := joinAbs(src, e.Name)
		childDst := joinAbs(dst, e.Name)
		meta, err := srv.Metadata(childSrc)
		if err != nil {
			return err
		}
		if meta.IsDir() {
			if err := copyDir(srv, ctx, childSrc, childDst); err != nil {
				return err
			}
		} else if err := copyFile(srv, ctx, childSrc, childDst); err != nil {
			return err
		}
	}
	return nil
}

func isExists(err error) bool {
	var fsErr *simfs.Error
	return errors.As(err, &fsErr) && fsErr.Kind == simfs.KindExists
}
