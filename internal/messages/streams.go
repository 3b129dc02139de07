package messages

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// EnsureStreams creates or updates the COMMAND and EVENT streams. Memory
// storage keeps the transcript for the life of the process only.
func EnsureStreams(ctx context.Context, js jetstream.JetStream, storage jetstream.StorageType) error {
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      CommandStream,
		Subjects:  []string{CommandSubjects},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   storage,
	}); err != nil {
		return fmt.Errorf("create %s stream: %w", CommandStream, err)
	}
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     EventStream,
		Subjects: []string{EventSubjects},
		Storage:  storage,
	}); err != nil {
		return fmt.Errorf("create %s stream: %w", EventStream, err)
	}
	return nil
}
