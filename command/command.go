// Package command implements the shell-like commands (ls, cd, mkdir,
// touch, cat, echo, cp, rm, login, info, check) as thin consumers of
// the simfs filesystem API, kept outside the filesystem core itself.
package command

import "github.com/virtfs/virtfs/simfs"

// Context is the per-connection state a command reads and may update:
// which user issued it, and its current working directory.
type Context struct {
	UID uint8
	WD  string
}

// Func is one command's implementation. It returns the text to show
// the caller; a non-nil error additionally signals failure to the
// transport layer (still rendered as text there).
type Func func(srv *simfs.Server, ctx *Context, args []string) (string, error)

// Registry maps command names to their implementation, mirroring the
// original shell's one-function-per-builtin dispatch.
var Registry = map[string]Func{
	"ls":    Ls,
	"cd":    Cd,
	"mkdir": Mkdir,
	"touch": Touch,
	"cat":   Cat,
	"echo":  Echo,
	"cp":    Cp,
	"rm":    Rm,
	"login": Login,
	"info":  Info,
	"check": Check,
}

// Dispatch runs the named command, or reports it unknown.
func Dispatch(name string, srv *simfs.Server, ctx *Context, args []string) (string, error) {
	fn, ok := Registry[name]
	if !ok {
		return "", &UnknownCommandError{Name: name}
	}
	return fn(srv, ctx, args)
}

// UnknownCommandError is returned for any command name not in Registry.
type UnknownCommandError struct{ Name string }

func (e *UnknownCommandError) Error() string { return "unknown command: " + e.Name }
