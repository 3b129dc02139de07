package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"shellpane/internal/messages"

	"github.com/nats-io/nats.go/jetstream"
)

const fetchBatch = 256

// Load replays a session's block events from the EVENT stream, in publication
// order, into a new Transcript.
func Load(ctx context.Context, js jetstream.JetStream, sessionID string) (*Transcript, error) {
	subj := messages.TerminalBlockSubject(sessionID)
	t := New()

	stream, err := js.Stream(ctx, messages.EventStream)
	if err != nil {
		return nil, fmt.Errorf("get %s stream: %w", messages.EventStream, err)
	}
	info, err := stream.Info(ctx, jetstream.WithSubjectFilter(subj))
	if err != nil {
		return nil, fmt.Errorf("stream info: %w", err)
	}
	remaining := int(info.State.Subjects[subj])
	if remaining == 0 {
		return t, nil
	}

	cons, err := stream.CreateConsumer(ctx, jetstream.ConsumerConfig{
		AckPolicy:         jetstream.AckNonePolicy,
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		FilterSubjects:    []string{subj},
		InactiveThreshold: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("create replay consumer: %w", err)
	}
	defer func() {
		name := cons.CachedInfo().Name
		if err := stream.DeleteConsumer(context.WithoutCancel(ctx), name); err != nil {
			slog.Debug("transcript: delete replay consumer", "consumer", name, "err", err)
		}
	}()

	for remaining > 0 {
		batch, err := cons.Fetch(min(remaining, fetchBatch), jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, fmt.Errorf("fetch blocks: %w", err)
		}
		got := 0
		for msg := range batch.Messages() {
			got++
			var evt messages.TerminalBlockEvent
			if err := json.Unmarshal(msg.Data(), &evt); err != nil {
				slog.Warn("transcript: bad block payload", "subject", msg.Subject(), "err", err)
				continue
			}
			t.Append(FromEvent(evt))
		}
		if err := batch.Error(); err != nil {
			return nil, fmt.Errorf("fetch blocks: %w", err)
		}
		if got == 0 {
			break
		}
		remaining -= got
	}
	return t, nil
}
