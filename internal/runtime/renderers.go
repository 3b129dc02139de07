package runtime

import (
	"context"
	"log/slog"

	"shellpane/internal/messages"
	"shellpane/internal/transcript"
	components "shellpane/ui/components"

	"github.com/nats-io/nats.go/jetstream"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// renderBlock appends the block to the transcript pane and scrolls the pane
// to the end. A block whose payload names a different session than its
// subject is dropped.
func renderBlock(_ context.Context, msg jetstream.Msg, sse Patcher, evt messages.TerminalBlockEvent) error {
	if sid := messages.SessionFromSubject(msg.Subject()); sid != evt.SessionID {
		slog.Warn("render: block session mismatch", "subject", msg.Subject(), "sid", evt.SessionID, "block", evt.BlockID)
		return nil
	}
	b := transcript.FromEvent(evt)
	if err := sse.MergeFragmentTempl(
		components.TranscriptBlock(b.ID, transcript.Prompt, b.Cmd, b.Stdout, b.Stderr),
		datastar.WithSelectorID(components.TranscriptID),
		datastar.WithMergeAppend(),
	); err != nil {
		return err
	}
	return sse.ExecuteScript(components.ScrollToEnd())
}

func init() {
	Specs = []RendererSpec{
		{Pattern: messages.TerminalBlockSubjectPattern, Build: func(subj string) Renderer {
			return newTypedRenderer(subj, renderBlock)
		}},
	}
}
