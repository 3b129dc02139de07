package platform

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"shellpane/internal/messages"
	"shellpane/internal/runtime"
	components "shellpane/ui/components"

	"github.com/nats-io/nats.go/jetstream"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// UIStream is the SSE handler for /ui. It resets the transcript pane, replays
// every block of the session in order and then follows new ones until the
// client goes away.
func UIStream(js jetstream.JetStream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionID(r)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		subj := messages.TerminalBlockSubject(sid)
		cons, err := js.CreateConsumer(ctx, messages.EventStream, jetstream.ConsumerConfig{
			AckPolicy:         jetstream.AckNonePolicy,
			FilterSubjects:    []string{subj},
			DeliverPolicy:     jetstream.DeliverAllPolicy, // replay
			InactiveThreshold: 30 * time.Second,
		})
		if err != nil {
			slog.Warn("UIStream: create consumer", "sid", sid, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer func() {
			name := cons.CachedInfo().Name
			if err := js.DeleteConsumer(context.Background(), messages.EventStream, name); err != nil {
				slog.Debug("UIStream: delete consumer", "consumer", name, "err", err)
			}
		}()

		sse := datastar.NewSSE(w, r)
		// a reconnect must not duplicate blocks already on screen
		if err := sse.MergeFragmentTempl(components.TranscriptPane()); err != nil {
			slog.Warn("UIStream: reset pane", "sid", sid, "err", err)
			return
		}

		renderers := runtime.ForSubjects([]string{subj})
		cc, err := cons.Consume(func(msg jetstream.Msg) {
			if err := runtime.Dispatch(ctx, renderers, msg, sse); err != nil {
				slog.Warn("render", "subj", msg.Subject(), "err", err)
			}
		})
		if err != nil {
			slog.Warn("UIStream: consume", "sid", sid, "err", err)
			return
		}
		defer cc.Stop()

		<-ctx.Done()
	}
}
