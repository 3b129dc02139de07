package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"shellpane/internal/messages"
	"shellpane/internal/shell"
	"shellpane/internal/transcript"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

const (
	terminalConsumer = "TERMINAL_RUN"

	defaultAckWait    = time.Minute
	defaultMaxPayload = 1 << 20

	// outputNote is appended to stderr when a block had to be cut down to fit
	// in one event message.
	outputNote = "[shellpane: output truncated to %d bytes per section (stdout %d bytes, stderr %d bytes)]\n"
)

// CommandRunner executes one command line to completion.
type CommandRunner interface {
	Run(ctx context.Context, line string) (shell.Result, error)
}

// EventPublisher publishes block events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt messages.Event) error
}

// TerminalEngine consumes submitted command lines, runs each through the
// command interpreter and publishes the resulting transcript block.
// Exactly one command is in flight at a time, in submission order.
//
// A submitted command runs at most once. While it runs the engine keeps
// extending the ack deadline, and once it has run the message is never
// handed back for redelivery.
type TerminalEngine struct {
	js        jetstream.JetStream
	runner    CommandRunner
	publisher EventPublisher
	ackWait   time.Duration
	maxOutput int
}

// EngineOption tunes a TerminalEngine.
type EngineOption func(*TerminalEngine)

// WithAckWait sets the consumer ack deadline. Progress is signalled at a
// third of it while a command runs.
func WithAckWait(d time.Duration) EngineOption {
	return func(te *TerminalEngine) {
		if d > 0 {
			te.ackWait = d
		}
	}
}

// WithMaxPayload sets the server's maximum message size, which bounds the
// output a single block can carry.
func WithMaxPayload(n int64) EngineOption {
	return func(te *TerminalEngine) {
		if n > 0 {
			te.maxOutput = sectionLimit(n)
		}
	}
}

// WithPublisher replaces the event publisher.
func WithPublisher(p EventPublisher) EngineOption {
	return func(te *TerminalEngine) { te.publisher = p }
}

func NewTerminalEngine(js jetstream.JetStream, runner CommandRunner, opts ...EngineOption) *TerminalEngine {
	te := &TerminalEngine{
		js:        js,
		runner:    runner,
		publisher: messages.NewPublisher(js),
		ackWait:   defaultAckWait,
		maxOutput: sectionLimit(defaultMaxPayload),
	}
	for _, opt := range opts {
		opt(te)
	}
	return te
}

// sectionLimit is the most bytes of one output section that still fits a
// block event of maxPayload bytes once JSON escaping is accounted for.
func sectionLimit(maxPayload int64) int {
	return int(maxPayload / 16)
}

// Start creates the durable consumer on the COMMAND stream and begins
// consuming. It returns once consumption has started; consumption stops when
// ctx is done.
func (te *TerminalEngine) Start(ctx context.Context) error {
	cons, err := te.js.CreateOrUpdateConsumer(ctx, messages.CommandStream, jetstream.ConsumerConfig{
		Durable:        terminalConsumer,
		AckPolicy:      jetstream.AckExplicitPolicy,
		FilterSubjects: []string{messages.TerminalRunSubjectPattern},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
		MaxAckPending:  1,
		AckWait:        te.ackWait,
	})
	if err != nil {
		return fmt.Errorf("create %s consumer: %w", terminalConsumer, err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		te.handleCommand(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	go func() {
		<-ctx.Done()
		cc.Stop()
	}()
	return nil
}

func (te *TerminalEngine) handleCommand(ctx context.Context, msg jetstream.Msg) {
	var in messages.TerminalCommandMessage
	if err := json.Unmarshal(msg.Data(), &in); err != nil {
		slog.Warn("terminal: bad cmd payload", "subject", msg.Subject(), "err", err)
		_ = msg.Ack()
		return
	}
	if err := in.Validate(); err != nil {
		slog.Warn("terminal: invalid cmd", "subject", msg.Subject(), "err", err)
		_ = msg.Ack()
		return
	}

	stop := keepInProgress(msg, te.ackWait/3)
	block, err := te.Execute(ctx, in)
	stop()
	if err != nil {
		// no block is appended for this submission
		slog.Error("terminal: command output could not be decoded", "sid", in.SessionID, "cmd", in.Cmd, "err", err)
		_ = msg.Term()
		return
	}

	// From here on the command has run; the message is acked or terminated,
	// never redelivered.
	if err := te.publisher.PublishEvent(ctx, block.Event()); err != nil {
		slog.Warn("terminal: publish block, retrying truncated", "sid", in.SessionID, "block", block.ID, "err", err)
		short := truncateBlock(block, te.maxOutput)
		if err := te.publisher.PublishEvent(ctx, short.Event()); err != nil {
			slog.Error("terminal: block lost", "sid", in.SessionID, "block", block.ID, "cmd", in.Cmd, "err", err)
			_ = msg.Term()
			return
		}
	}
	_ = msg.Ack()
}

// keepInProgress resets the ack deadline of msg every interval until the
// returned stop func is called.
func keepInProgress(msg jetstream.Msg, interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := msg.InProgress(); err != nil {
					slog.Warn("terminal: in progress", "subject", msg.Subject(), "err", err)
				}
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

// truncateBlock cuts each output section of b to at most limit bytes and
// notes the cut in stderr.
func truncateBlock(b transcript.Block, limit int) transcript.Block {
	stdoutLen, stderrLen := len(b.Stdout), len(b.Stderr)
	b.Stdout = truncateUTF8(b.Stdout, limit)
	b.Stderr = truncateUTF8(b.Stderr, limit)
	if b.Stderr != "" && !strings.HasSuffix(b.Stderr, "\n") {
		b.Stderr += "\n"
	}
	b.Stderr += fmt.Sprintf(outputNote, limit, stdoutLen, stderrLen)
	return b
}

func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// Execute runs one submitted line and builds its transcript block.
func (te *TerminalEngine) Execute(ctx context.Context, in messages.TerminalCommandMessage) (transcript.Block, error) {
	slog.Info("terminal: running", "sid", in.SessionID, "cmd", in.Cmd)

	res, err := te.runner.Run(ctx, in.Cmd)
	if err != nil {
		if errors.Is(err, shell.ErrUndecodable) {
			CommandsTotal.WithLabelValues(outcomeUndecodable).Inc()
		}
		return transcript.Block{}, err
	}
	CommandsTotal.WithLabelValues(outcome(res)).Inc()
	CommandDuration.Observe(res.Duration.Seconds())

	slog.Info("terminal: finished", "sid", in.SessionID, "exit", res.ExitCode, "duration", res.Duration,
		"stdout_bytes", len(res.Stdout), "stderr_bytes", len(res.Stderr))

	return transcript.Block{
		ID:        xid.New().String(),
		SessionID: in.SessionID,
		Cmd:       in.Cmd,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		ExitCode:  res.ExitCode,
		Duration:  res.Duration,
		At:        time.Now(),
	}, nil
}
