// Package transport implements the external request/response wire
// protocol: one TCP connection per client, newline-delimited JSON
// frames in both directions. It sits outside the filesystem core
// itself — the core only ever sees commands after they've been
// decoded here.
package transport

import "github.com/google/uuid"

// Request is one client-issued command line, tagged with an ID so the
// reply can be matched up on a connection that may be pipelining
// several requests.
type Request struct {
	ID   uuid.UUID `json:"id"`
	UID  uint8     `json:"uid"`
	WD   string    `json:"wd"`
	Line string    `json:"line"`
}

// Response carries a command's textual output (or error) and the
// caller's possibly-updated working directory (cd changes it).
type Response struct {
	ID     uuid.UUID `json:"id"`
	Output string    `json:"output"`
	Err    string    `json:"error,omitempty"`
	WD     string    `json:"wd"`
}

// NewRequest builds a Request with a fresh correlation ID.
func NewRequest(uid uint8, wd, line string) Request {
	return Request{ID: uuid.New(), UID: uid, WD: wd, Line: line}
}
