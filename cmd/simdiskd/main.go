// Command simdiskd serves the simulated disk filesystem over TCP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/virtfs/virtfs/clock"
	"github.com/virtfs/virtfs/command"
	"github.com/virtfs/virtfs/simfs"
	"github.com/virtfs/virtfs/transport"
)

func main() {
	diskPath := flag.String("disk", "./the_disk", "path to the simulated disk image")
	addr := flag.String("addr", ":7070", "TCP address to listen on")
	concurrency := flag.Int("concurrency", 32, "maximum concurrent client handlers")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("[MAIN] simdiskd starting...")
	srv := simfs.NewServer(*diskPath, clock.System{}, log)
	srv.Start(ctx)

	if err := <-srv.Started(); err != nil {
		log.WithError(err).Fatal("[MAIN] failed to initialise disk")
	}
	log.Info("[MAIN] simdiskd started.")

	handler := func(req transport.Request) transport.Response {
		return handle(srv, req)
	}
	listener := transport.NewListener(*addr, *concurrency, handler, log)
	log.Infof("[MAIN] listening on %s", *addr)
	if err := listener.Serve(ctx); err != nil {
		log.WithError(err).Fatal("[MAIN] server stopped")
	}
}

func handle(srv *simfs.Server, req transport.Request) transport.Response {
	ctx := &command.Context{UID: req.UID, WD: req.WD}
	fields := strings.Fields(req.Line)
	if len(fields) == 0 {
		return transport.Response{ID: req.ID, WD: ctx.WD}
	}

	out, err := command.Dispatch(fields[0], srv, ctx, fields[1:])
	resp := transport.Response{ID: req.ID, Output: out, WD: ctx.WD}
	if err != nil {
		resp.Err = err.Error()
	}
	return resp
}
