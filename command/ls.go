package command

import (
	"flag"
	"fmt"
	"strings"

	"github.com/virtfs/virtfs/simfs"
)

var lsPermission = rwx{read: true}

func rwxString(ownerRWX, otherRWX uint8) string {
	bit := func(bits uint8, mask uint8, c byte) byte {
		if bits&mask != 0 {
			return c
		}
		return '-'
	}
	var b strings.Builder
	b.WriteByte(bit(ownerRWX, 0b100, 'r'))
	b.WriteByte(bit(ownerRWX, 0b010, 'w'))
	b.WriteByte(bit(ownerRWX, 0b001, 'x'))
	b.WriteByte(bit(otherRWX, 0b100, 'r'))
	b.WriteByte(bit(otherRWX, 0b010, 'w'))
	b.WriteByte(bit(otherRWX, 0b001, 'x'))
	return b.String()
}

// Ls lists one or more paths, defaulting to the working directory.
func Ls(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	all := fs.Bool("a", false, "do not ignore entries starting with .")
	long := fs.Bool("l", false, "use a long listing format")
	if err := fs.Parse(args); err != nil {
		return err.Error(), nil
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{ctx.WD}
	}

	var out strings.Builder
	for _, path := range paths {
		abs := toAbs(ctx.WD, path)
		meta, err := srv.Metadata(abs)
		if err != nil {
			fmt.Fprintf(&out, "Cannot find '%s'\n", path)
			continue
		}
		if !checkPermission(ctx.UID, meta, lsPermission) {
			out.WriteString("Permission denied\n")
			continue
		}

		fmt.Fprintf(&out, "%s:\n", path)
		if !meta.IsDir() {
			writeLsLine(&out, path, meta, *long)
			if !*long {
				out.WriteByte('\n')
			}
			continue
		}

		dd, err := srv.OpenDir(abs)
		if err != nil {
			fmt.Fprintf(&out, "Cannot open directory: '%s'\n", path)
			continue
		}
		entries, err := srv.ReadDir(dd.Addr)
		dd.Close()
		if err != nil {
			fmt.Fprintf(&out, "Cannot read directory: '%s'\n", path)
			continue
		}
		for _, e := range entries {
			if !*all && strings.HasPrefix(e.Name, ".") {
				continue
			}
			childMeta, err := srv.Metadata(joinAbs(abs, e.Name))
			if err != nil {
				continue
			}
			name := e.Name
			if childMeta.IsDir() {
				name += "/"
			}
			writeLsLine(&out, name, childMeta, *long)
			if !*long {
				out.WriteByte(' ')
			}
		}
		out.WriteByte('\n')
	}
	return out.String(), nil
}

func writeLsLine(out *strings.Builder, name string, meta simfs.Metadata, long bool) {
	if !long {
		out.WriteString(name)
		return
	}
	kind := byte('-')
	if meta.IsDir() {
		kind = 'd'
	}
	ownerRWX, otherRWX := meta.Permission()
	month, day, hour, minute := meta.Timestamp()
	fmt.Fprintf(out, "%c%s %10d %10d %04d-%02d %02d:%02d %s\n",
		kind, rwxString(ownerRWX, otherRWX), meta.Owner(), meta.Size(), month+1, day, hour, minute, name)
}

func joinAbs(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
