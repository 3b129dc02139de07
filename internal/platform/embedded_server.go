package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// EmbeddedServerConfig holds options for running the embedded server.
type EmbeddedServerConfig struct {
	InProcess       bool   `yaml:"in_process"`
	EnableLogging   bool   `yaml:"enable_logging"`
	JetStream       bool   `yaml:"jetstream"`
	JetStreamDomain string `yaml:"jetstream_domain"`
	LeafNodeURL     string `yaml:"leaf_node_url" validate:"omitempty,url"` // empty disables leaf node
	LeafNodeCreds   string `yaml:"leaf_node_creds"`
	StoreDir        string `yaml:"store_dir"`   // empty means a temp dir removed on shutdown
	MaxPayload      int32  `yaml:"max_payload"` // bytes; 0 keeps the server default
}

// EmbeddedServer is a running embedded NATS server.
type EmbeddedServer struct {
	*server.Server
	tempDir string
	once    sync.Once
}

// Shutdown stops the server, waits for it to finish and removes a store
// directory created for it. It is safe to call more than once.
func (es *EmbeddedServer) Shutdown() {
	es.once.Do(func() {
		es.Server.Shutdown()
		es.Server.WaitForShutdown()
		if es.tempDir == "" {
			return
		}
		if err := os.RemoveAll(es.tempDir); err != nil {
			slog.Warn("embedded server: remove store dir", "dir", es.tempDir, "err", err)
		}
	})
}

// RunEmbeddedServer starts an embedded NATS server with the given config and
// returns a client connection, the server instance, and an error channel.
// The server is shut down when ctx is done.
func RunEmbeddedServer(ctx context.Context, cfg EmbeddedServerConfig) (*nats.Conn, *EmbeddedServer, <-chan error, error) {
	var leafRemotes []*server.RemoteLeafOpts
	if cfg.LeafNodeURL != "" {
		leafURL, err := url.Parse(cfg.LeafNodeURL)
		if err != nil {
			return nil, nil, nil, err
		}
		leafRemotes = []*server.RemoteLeafOpts{{
			URLs:        []*url.URL{leafURL},
			Credentials: cfg.LeafNodeCreds,
		}}
	}

	storeDir, tempDir := cfg.StoreDir, ""
	if storeDir == "" && cfg.JetStream {
		dir, err := os.MkdirTemp("", "shellpane-js-")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("jetstream store dir: %w", err)
		}
		storeDir, tempDir = dir, dir
	}
	removeTemp := func() {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}

	opts := &server.Options{
		ServerName:      "shellpane",
		DontListen:      cfg.InProcess,
		JetStream:       cfg.JetStream,
		JetStreamDomain: cfg.JetStreamDomain,
		StoreDir:        storeDir,
		MaxPayload:      cfg.MaxPayload,
	}
	if len(leafRemotes) > 0 {
		opts.LeafNode = server.LeafNodeOpts{Remotes: leafRemotes}
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		removeTemp()
		return nil, nil, nil, err
	}
	es := &EmbeddedServer{Server: ns, tempDir: tempDir}
	if cfg.EnableLogging {
		ns.SetLogger(NewNATSServerLogger(slog.Default()), false, false)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		es.Shutdown()
		return nil, nil, nil, errors.New("NATS Server timeout")
	}

	clientOpts := []nats.Option{nats.Name("shellpane")}
	if cfg.InProcess {
		clientOpts = append(clientOpts, nats.InProcessServer(ns))
	}

	nc, err := nats.Connect(ns.ClientURL(), clientOpts...)
	if err != nil {
		es.Shutdown()
		return nil, nil, nil, err
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		nc.Close()
		es.Shutdown()
		errCh <- ctx.Err()
	}()

	return nc, es, errCh, nil
}
