package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestClientServerRoundTrip(t *testing.T) {
	addr := freeAddr(t)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	handler := func(req Request) Response {
		return Response{ID: req.ID, Output: "echo:" + req.Line, WD: req.WD}
	}
	listener := NewListener(addr, 4, handler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- listener.Serve(ctx) }()
	time.Sleep(20 * time.Millisecond)

	client, err := Dial(addr)
	require.NoError(t, err)
	defer client.Close()

	req := NewRequest(3, "/home/3", "ls")
	resp, err := client.Send(req)
	require.NoError(t, err)
	require.Equal(t, req.ID, resp.ID)
	require.Equal(t, "echo:ls", resp.Output)
	require.Equal(t, "/home/3", resp.WD)
	require.Empty(t, resp.Err)
}

func TestMalformedRequestGetsErrorResponse(t *testing.T) {
	addr := freeAddr(t)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	handler := func(req Request) Response { return Response{ID: req.ID} }
	listener := NewListener(addr, 4, handler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Serve(ctx)
	time.Sleep(20 * time.Millisecond)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not json\n"))
	require.NoError(t, err)

	buf := make([]byte, 256)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Contains(t, string(buf[:n]), "malformed request")
}
