// Package natstest starts a throwaway in-process NATS server with JetStream
// for tests.
package natstest

import (
	"context"
	"testing"
	"time"

	"shellpane/internal/messages"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Start runs a JetStream-enabled server that is shut down with the test.
func Start(t testing.TB) (*nats.Conn, jetstream.JetStream) {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		ServerName: "natstest",
		DontListen: true,
		JetStream:  true,
		StoreDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("natstest: new server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("natstest: server not ready")
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.InProcessServer(ns))
	if err != nil {
		t.Fatalf("natstest: connect: %v", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("natstest: jetstream: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return nc, js
}

// StartWithStreams is Start plus the COMMAND and EVENT streams.
func StartWithStreams(t testing.TB) (*nats.Conn, jetstream.JetStream) {
	t.Helper()
	nc, js := Start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := messages.EnsureStreams(ctx, js, jetstream.MemoryStorage); err != nil {
		t.Fatalf("natstest: %v", err)
	}
	return nc, js
}
