package messages

import (
	"fmt"
	"regexp"
	"time"
)

// =============================================================================
// CORE INTERFACES
// =============================================================================

// Message represents any message in the system
type Message interface {
	Subject() string
	Validate() error
}

// Command represents an input that requests something to happen
type Command interface {
	Message
	IsCommand()
}

// Event represents something that has happened
type Event interface {
	Message
	IsEvent()
	Timestamp() time.Time
}

// =============================================================================
// STREAMS AND SUBJECTS
// =============================================================================

const (
	// CommandStream is a work queue: each submitted line is consumed once.
	CommandStream = "COMMAND"
	// EventStream holds every transcript block for the life of the process.
	EventStream = "EVENT"

	CommandSubjects = "command.>"
	EventSubjects   = "event.>"

	TerminalRunSubjectPattern   = "command.terminal.session.*.run"   // * = session id
	TerminalBlockSubjectPattern = "event.terminal.session.*.block" // * = session id
)

// session ids become a single subject token
var sessionIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session_id is required")
	}
	if !sessionIDRegex.MatchString(id) {
		return fmt.Errorf("session_id must contain only alphanumeric characters, hyphens, and underscores")
	}
	return nil
}

// =============================================================================
// TERMINAL DOMAIN
// =============================================================================

// TerminalCommandMessage is one line submitted from the input field.
// Cmd may be empty; it is still run.
type TerminalCommandMessage struct {
	SessionID   string    `json:"session_id"`
	Cmd         string    `json:"cmd"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (c TerminalCommandMessage) Subject() string { return TerminalRunSubject(c.SessionID) }
func (c TerminalCommandMessage) IsCommand()      {}
func (c TerminalCommandMessage) Validate() error {
	return validateSessionID(c.SessionID)
}

// TerminalBlockEvent carries one transcript block: the command line and what
// it printed.
type TerminalBlockEvent struct {
	BlockID    string    `json:"block_id"`
	SessionID  string    `json:"session_id"`
	Cmd        string    `json:"cmd"`
	Stdout     string    `json:"stdout"`
	Stderr     string    `json:"stderr"`
	ExitCode   int       `json:"exit_code"`
	DurationMS int64     `json:"duration_ms"`
	AppendedAt time.Time `json:"appended_at"`
}

func (e TerminalBlockEvent) Subject() string      { return TerminalBlockSubject(e.SessionID) }
func (e TerminalBlockEvent) IsEvent()             {}
func (e TerminalBlockEvent) Timestamp() time.Time { return e.AppendedAt }
func (e TerminalBlockEvent) Validate() error {
	if e.BlockID == "" {
		return fmt.Errorf("block_id is required")
	}
	return validateSessionID(e.SessionID)
}

// MsgID is used as the JetStream de-duplication id.
func (e TerminalBlockEvent) MsgID() string { return e.BlockID }

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func TerminalRunSubject(sessionID string) string {
	return fmt.Sprintf("command.terminal.session.%s.run", sessionID)
}

func TerminalBlockSubject(sessionID string) string {
	return fmt.Sprintf("event.terminal.session.%s.block", sessionID)
}
