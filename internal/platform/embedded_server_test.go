package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmbeddedServer_RemovesTempStoreOnShutdown(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	t.Setenv("TMP", tmp)
	t.Setenv("TEMP", tmp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, es, errCh, err := RunEmbeddedServer(ctx, EmbeddedServerConfig{InProcess: true, JetStream: true, MaxPayload: 4 << 20})
	require.NoError(t, err)
	assert.True(t, nc.IsConnected())
	assert.Equal(t, int64(4<<20), nc.MaxPayload())

	dirs, err := filepath.Glob(filepath.Join(tmp, "shellpane-js-*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("embedded server did not stop")
	}
	es.Shutdown()

	_, err = os.Stat(dirs[0])
	assert.True(t, os.IsNotExist(err), "store dir still present: %v", err)
}

func TestRunEmbeddedServer_KeepsConfiguredStoreDir(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, es, _, err := RunEmbeddedServer(ctx, EmbeddedServerConfig{InProcess: true, JetStream: true, StoreDir: dir})
	require.NoError(t, err)
	es.Shutdown()

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
