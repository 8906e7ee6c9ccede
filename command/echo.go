package command

import (
	"flag"
	"strings"

	"github.com/virtfs/virtfs/simfs"
)

var escapeReplacer = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
	`\\`, `\`,
	`\"`, `"`,
)

// Echo prints its arguments, space-separated, with an optional
// trailing newline suppression (-n) and backslash-escape
// interpretation (-e).
func Echo(srv *simfs.Server, ctx *Context, args []string) (string, error) {
	fs := flag.NewFlagSet("echo", flag.ContinueOnError)
	noNewline := fs.Bool("n", false, "do not append a newline")
	interpret := fs.Bool("e", false, "interpret backslash escapes")
	if err := fs.Parse(args); err != nil {
		return err.Error(), nil
	}

	out := strings.Join(fs.Args(), " ")
	if *interpret {
		out = escapeReplacer.Replace(out)
	}
	if !*noNewline {
		out += "\n"
	}
	return out, nil
}
