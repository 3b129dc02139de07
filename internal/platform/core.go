package platform

import (
	"context"
	"fmt"
	"log/slog"

	"shellpane/internal/messages"
	"shellpane/internal/runtime"
	"shellpane/internal/shell"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NewRunner builds the command runner described by cfg.
func NewRunner(cfg ShellConfig) (*shell.Runner, error) {
	dec, err := shell.NewDecoder(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	interp := shell.Interpreter{Path: cfg.Interpreter, Args: cfg.InterpreterArgs}
	return shell.NewRunner(interp, dec), nil
}

// Run creates the streams, starts the terminal engine and blocks until ctx
// is done.
func Run(ctx context.Context, nc *nats.Conn, runner runtime.CommandRunner) error {
	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("jetstream context: %w", err)
	}

	if err := messages.EnsureStreams(ctx, js, jetstream.MemoryStorage); err != nil {
		return err
	}
	slog.Info("Streams ready", "command", messages.CommandStream, "event", messages.EventStream)

	te := runtime.NewTerminalEngine(js, runner, runtime.WithMaxPayload(nc.MaxPayload()))
	if err := te.Start(ctx); err != nil {
		return fmt.Errorf("terminal engine: %w", err)
	}
	slog.Info("TerminalEngine started")

	<-ctx.Done()
	slog.Info("Run: shutdown requested")
	return nil
}
