package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/virtfs/virtfs/workerpool"
)

// Handler answers one decoded Request with a Response. The server
// binary's handler passes Line to the command package; transport never
// interprets Line.
type Handler func(req Request) Response

// Listener accepts connections on a TCP address and dispatches each
// one to a bounded pool of handler goroutines.
type Listener struct {
	addr    string
	handler Handler
	pool    *workerpool.Pool
	log     *logrus.Logger
}

// NewListener builds a Listener that answers at most concurrency
// connections at a time.
func NewListener(addr string, concurrency int, handler Handler, log *logrus.Logger) *Listener {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Listener{
		addr:    addr,
		handler: handler,
		pool:    workerpool.New(context.Background(), concurrency),
		log:     log,
	}
}

// Serve listens and blocks, serving connections until ctx is
// cancelled. A failed Accept is logged and the loop goes on; Serve
// returns an error only when it cannot listen on addr.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				l.log.WithError(err).Warn("transport: accept failed")
				continue
			}
		}
		l.pool.Go(func(ctx context.Context) error {
			l.serveConn(conn)
			return nil
		})
	}
}

// serveConn reads newline-delimited JSON Requests off conn and writes
// back a newline-delimited JSON Response for each, until the client
// disconnects or a write fails. A malformed line gets a Response whose
// Err describes the problem, and reading continues.
func (l *Listener) serveConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = enc.Encode(Response{Err: "malformed request: " + err.Error()})
			continue
		}
		resp := l.handler(req)
		if err := enc.Encode(resp); err != nil {
			l.log.WithError(err).Warn("transport: write failed, dropping connection")
			return
		}
	}
}
