package command

import (
	"bytes"
	"flag"
	"fmt"
	"strings"

	"github.com/virtfs/virtfs/simfs"
)

var catPermission = rwx{read: true}

// Cat prints the contents of one or more files, optionally numbering
// lines.
func Cat(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	fs := flag.NewFlagSet("cat", flag.ContinueOnError)
	number := fs.Bool("n", false, "number all output lines")
	numberNonEmpty := fs.Bool("b", false, "number non-empty output lines")
	if err := fs.Parse(args); err != nil {
		return err.Error(), nil
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return "Usage: cat [-nb] <file1> <file2> ...", nil
	}

	var out strings.Builder
	for _, path := range paths {
		abs := toAbs(ctx.WD, path)
		meta, err := srv.Metadata(abs)
		if err != nil {
			fmt.Fprintf(&out, "Cannot find '%s'\n", path)
			continue
		}
		if !checkPermission(ctx.UID, meta, catPermission) {
			out.WriteString("Permission denied\n")
			continue
		}
		if meta.IsDir() {
			fmt.Fprintf(&out, "'%s' is a directory\n", path)
			continue
		}

		fd, err := srv.OpenFile(abs)
		if err != nil {
			fmt.Fprintf(&out, "Cannot open file: '%s'\n", path)
			continue
		}
		data, err := srv.ReadFile(fd.Addr)
		fd.Close()
		if err != nil {
			fmt.Fprintf(&out, "Cannot read file: '%s'\n", path)
			continue
		}

		lineNum := 1
		lines := bytes.Split(data, []byte("\n"))
		for _, line := range lines {
			if *number || (*numberNonEmpty && len(line) > 0) {
				fmt.Fprintf(&out, "%6d\t", lineNum)
				lineNum++
			}
			out.Write(line)
			out.WriteByte('\n')
		}
	}
	return out.String(), nil
}
