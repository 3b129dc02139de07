package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shellpane/internal/platform"
)

func main() {
	appCfg, err := platform.LoadAppConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "shellpane:", err)
		os.Exit(1)
	}

	platform.InitLogger(appCfg.Log.Level)
	platform.InitMetrics()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner, err := platform.NewRunner(*appCfg.ShellCfg)
	if err != nil {
		slog.Error("Invalid shell configuration", "err", err)
		os.Exit(1)
	}
	slog.Info("Command interpreter", "path", runner.Interpreter().Path, "args", runner.Interpreter().Args, "encoding", appCfg.ShellCfg.Encoding)

	// --- Run embedded NATS server ---
	nc, ns, natsErrCh, err := platform.RunEmbeddedServer(ctx, *appCfg.NatsCfg)
	if err != nil {
		slog.Error("Failed to start embedded server", "err", err)
		os.Exit(1)
	}
	defer ns.Shutdown()
	defer nc.Close()

	var httpErrCh <-chan error
	if !appCfg.Flags.Headless {
		httpErrCh = platform.RunHTTPServer(ctx, nc, *appCfg.HTTPSrvCfg)
	} else {
		// never sends
		httpErrCh = make(chan error)
	}

	go func() {
		select {
		case err := <-natsErrCh:
			slog.Error("Embedded server error", "err", err)
			cancel()
		case err := <-httpErrCh:
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	if err := platform.Run(ctx, nc, runner); err != nil {
		slog.Error("Run failed", "err", err)
		cancel()
		ns.Shutdown()
		os.Exit(1)
	}
}
