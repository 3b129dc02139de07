package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewTerminalCommandMessage creates a terminal command message
func NewTerminalCommandMessage(sessionID, cmd string) *TerminalCommandMessage {
	return &TerminalCommandMessage{
		SessionID:   sessionID,
		Cmd:         cmd,
		SubmittedAt: time.Now(),
	}
}

// NewTerminalBlockEvent creates a block event for the given command line
func NewTerminalBlockEvent(blockID, sessionID, cmd string) *TerminalBlockEvent {
	return &TerminalBlockEvent{
		BlockID:    blockID,
		SessionID:  sessionID,
		Cmd:        cmd,
		AppendedAt: time.Now(),
	}
}

// WithOutput sets the captured streams
func (e *TerminalBlockEvent) WithOutput(stdout, stderr string) *TerminalBlockEvent {
	e.Stdout = stdout
	e.Stderr = stderr
	return e
}

// WithExit records exit status and run time
func (e *TerminalBlockEvent) WithExit(code int, d time.Duration) *TerminalBlockEvent {
	e.ExitCode = code
	e.DurationMS = d.Milliseconds()
	return e
}

// =============================================================================
// PUBLISHER - Type-safe message publishing
// =============================================================================

// Publisher provides type-safe message publishing
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new type-safe publisher
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishCommand publishes a command with validation
func (p *Publisher) PublishCommand(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	if _, err := p.js.Publish(ctx, cmd.Subject(), data); err != nil {
		return fmt.Errorf("publish command: %w", err)
	}
	return nil
}

// PublishEvent publishes an event with validation. Events that expose a
// MsgID are de-duplicated by JetStream.
func (p *Publisher) PublishEvent(ctx context.Context, evt Event) error {
	if err := evt.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var opts []jetstream.PublishOpt
	if idd, ok := evt.(interface{ MsgID() string }); ok && idd.MsgID() != "" {
		opts = append(opts, jetstream.WithMsgID(idd.MsgID()))
	}

	if _, err := p.js.Publish(ctx, evt.Subject(), data, opts...); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
