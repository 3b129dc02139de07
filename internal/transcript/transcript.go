// Package transcript holds the append-only history of commands and their
// captured output.
package transcript

import (
	"io"
	"strings"
	"sync"
	"time"

	"shellpane/internal/messages"
)

// Prompt precedes every echoed command line.
const Prompt = "$ "

// Block is one submitted line and what it printed.
type Block struct {
	ID        string
	SessionID string
	Cmd       string
	Stdout    string
	Stderr    string
	ExitCode  int
	Duration  time.Duration
	At        time.Time
}

// Text renders the block exactly as it appears in the transcript. The stdout
// and stderr sections are always present, even when empty.
func (b Block) Text() string {
	var sb strings.Builder
	sb.Grow(len(Prompt) + len(b.Cmd) + len(b.Stdout) + len(b.Stderr) + 3)
	sb.WriteString(Prompt)
	sb.WriteString(b.Cmd)
	sb.WriteByte('\n')
	sb.WriteString(b.Stdout)
	sb.WriteByte('\n')
	sb.WriteString(b.Stderr)
	sb.WriteByte('\n')
	return sb.String()
}

// Event converts the block to its wire form.
func (b Block) Event() *messages.TerminalBlockEvent {
	evt := messages.NewTerminalBlockEvent(b.ID, b.SessionID, b.Cmd).
		WithOutput(b.Stdout, b.Stderr).
		WithExit(b.ExitCode, b.Duration)
	if !b.At.IsZero() {
		evt.AppendedAt = b.At
	}
	return evt
}

// FromEvent is the inverse of Block.Event.
func FromEvent(evt messages.TerminalBlockEvent) Block {
	return Block{
		ID:        evt.BlockID,
		SessionID: evt.SessionID,
		Cmd:       evt.Cmd,
		Stdout:    evt.Stdout,
		Stderr:    evt.Stderr,
		ExitCode:  evt.ExitCode,
		Duration:  time.Duration(evt.DurationMS) * time.Millisecond,
		At:        evt.AppendedAt,
	}
}

// Transcript is an ordered, append-only sequence of blocks. Blocks are never
// reordered or removed.
type Transcript struct {
	mu     sync.RWMutex
	blocks []Block
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds b after every existing block and returns its position.
func (t *Transcript) Append(b Block) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blocks = append(t.blocks, b)
	return len(t.blocks) - 1
}

// Len returns the number of blocks.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.blocks)
}

// Blocks returns a copy of all blocks in order.
func (t *Transcript) Blocks() []Block {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Block, len(t.blocks))
	copy(out, t.blocks)
	return out
}

// Last returns the newest block.
func (t *Transcript) Last() (Block, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.blocks) == 0 {
		return Block{}, false
	}
	return t.blocks[len(t.blocks)-1], true
}

// String is the full visible transcript.
func (t *Transcript) String() string {
	var sb strings.Builder
	_, _ = t.WriteTo(&sb)
	return sb.String()
}

// WriteTo writes every block's text to w in order.
func (t *Transcript) WriteTo(w io.Writer) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, b := range t.blocks {
		m, err := io.WriteString(w, b.Text())
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
