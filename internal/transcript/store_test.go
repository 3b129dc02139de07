package transcript

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shellpane/internal/messages"
	"shellpane/internal/natstest"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ReplaysSessionInOrder(t *testing.T) {
	_, js := natstest.StartWithStreams(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pub := messages.NewPublisher(js)

	for i := range 3 {
		b := Block{ID: xid.New().String(), SessionID: "alice", Cmd: fmt.Sprintf("echo %d", i), Stdout: fmt.Sprintf("%d\n", i)}
		require.NoError(t, pub.PublishEvent(ctx, b.Event()))
	}
	other := Block{ID: xid.New().String(), SessionID: "bob", Cmd: "whoami", Stdout: "bob\n"}
	require.NoError(t, pub.PublishEvent(ctx, other.Event()))

	tr, err := Load(ctx, js, "alice")
	require.NoError(t, err)

	assert.Equal(t, "$ echo 0\n0\n\n\n$ echo 1\n1\n\n\n$ echo 2\n2\n\n\n", tr.String())

	bob, err := Load(ctx, js, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.Len())
}

func TestLoad_EmptySession(t *testing.T) {
	_, js := natstest.StartWithStreams(t)

	tr, err := Load(context.Background(), js, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, "", tr.String())
}

func TestLoad_DuplicateBlockIDsAreDropped(t *testing.T) {
	_, js := natstest.StartWithStreams(t)
	ctx := context.Background()
	pub := messages.NewPublisher(js)

	b := Block{ID: "same-id", SessionID: "carol", Cmd: "date"}
	require.NoError(t, pub.PublishEvent(ctx, b.Event()))
	require.NoError(t, pub.PublishEvent(ctx, b.Event()))

	tr, err := Load(ctx, js, "carol")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
}
