package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalCommandMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     *TerminalCommandMessage
		wantErr bool
	}{
		{"plain", NewTerminalCommandMessage("abc-123", "echo hello"), false},
		{"empty command line is allowed", NewTerminalCommandMessage("abc-123", ""), false},
		{"missing session", NewTerminalCommandMessage("", "ls"), true},
		{"session with subject separator", NewTerminalCommandMessage("a.b", "ls"), true},
		{"session with wildcard", NewTerminalCommandMessage("*", "ls"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubjects(t *testing.T) {
	sid := "0f6c2a1e-7d8b-4a43-9c0e-5b7d2f3e1a90"

	assert.Equal(t, "command.terminal.session."+sid+".run", NewTerminalCommandMessage(sid, "").Subject())
	assert.Equal(t, "event.terminal.session."+sid+".block", NewTerminalBlockEvent("b1", sid, "").Subject())

	assert.True(t, SubjectMatches(TerminalRunSubjectPattern, TerminalRunSubject(sid)))
	assert.True(t, SubjectMatches(TerminalBlockSubjectPattern, TerminalBlockSubject(sid)))
	assert.True(t, SubjectMatches(CommandSubjects, TerminalRunSubject(sid)))
	assert.False(t, SubjectMatches(TerminalRunSubjectPattern, TerminalBlockSubject(sid)))

	assert.Equal(t, sid, SessionFromSubject(TerminalBlockSubject(sid)))
	assert.Equal(t, "", SessionFromSubject("event.other"))
}

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		pattern, subj string
		want          bool
	}{
		{"a.b.c", "a.b.c", true},
		{"a.*.c", "a.x.c", true},
		{"a.*.c", "a.x.y.c", false},
		{"a.>", "a.b", true},
		{"a.>", "a.b.c.d", true},
		{"a.>", "a", false},
		{">", "anything.at.all", true},
		{"a.b", "a.b.c", false},
		{"a.b.c", "a.b", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SubjectMatches(tc.pattern, tc.subj), "%s ~ %s", tc.pattern, tc.subj)
	}
}

func TestTerminalBlockEvent_Builders(t *testing.T) {
	evt := NewTerminalBlockEvent("blk", "sid", "false").
		WithOutput("", "boom\n").
		WithExit(1, 1500*time.Millisecond)

	require.NoError(t, evt.Validate())
	assert.Equal(t, "blk", evt.MsgID())
	assert.Equal(t, "boom\n", evt.Stderr)
	assert.Equal(t, 1, evt.ExitCode)
	assert.Equal(t, int64(1500), evt.DurationMS)
	assert.False(t, evt.Timestamp().IsZero())

	assert.Error(t, NewTerminalBlockEvent("", "sid", "").Validate())
}

func TestDecodeTerminalCommandBody(t *testing.T) {
	cmd, err := DecodeTerminalCommandBody([]byte(`{"cmd":"echo hello"}`))
	require.NoError(t, err)
	assert.Equal(t, "echo hello", cmd)

	cmd, err = DecodeTerminalCommandBody([]byte(`{"cmd":""}`))
	require.NoError(t, err)
	assert.Equal(t, "", cmd)

	for _, bad := range []string{`{}`, `{"cmd":1}`, `{"cmd":"ls","cwd":"/"}`, `[]`, `not json`} {
		_, err := DecodeTerminalCommandBody([]byte(bad))
		assert.Error(t, err, bad)
	}
}
