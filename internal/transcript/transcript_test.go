package transcript

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_Text(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{
			name:  "stdout only",
			block: Block{Cmd: "echo hello", Stdout: "hello\n"},
			want:  "$ echo hello\nhello\n\n\n",
		},
		{
			name:  "stderr only",
			block: Block{Cmd: "ls /nope", Stderr: "ls: /nope: No such file\n"},
			want:  "$ ls /nope\n\nls: /nope: No such file\n\n",
		},
		{
			name:  "empty command line",
			block: Block{},
			want:  "$ \n\n\n",
		},
		{
			name:  "output without trailing newline",
			block: Block{Cmd: "printf x", Stdout: "x"},
			want:  "$ printf x\nx\n\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.block.Text())
		})
	}
}

func TestBlock_TextMatchesDocumentedFormat(t *testing.T) {
	const cmd, out, errText = "make", "built\n", "warning\n"
	b := Block{Cmd: cmd, Stdout: out, Stderr: errText}

	assert.Equal(t, "$ "+cmd+"\n"+out+"\n"+errText+"\n", b.Text())
}

func TestBlock_EventRoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	b := Block{
		ID: "blk1", SessionID: "sid", Cmd: "false",
		Stderr: "nope\n", ExitCode: 1, Duration: 250 * time.Millisecond, At: at,
	}

	evt := b.Event()
	require.NoError(t, evt.Validate())
	assert.Equal(t, b, FromEvent(*evt))
}

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	tr := New()
	_, ok := tr.Last()
	assert.False(t, ok)

	for i := range 5 {
		idx := tr.Append(Block{Cmd: fmt.Sprintf("echo %d", i), Stdout: fmt.Sprintf("%d\n", i)})
		assert.Equal(t, i, idx)
	}

	blocks := tr.Blocks()
	require.Len(t, blocks, 5)
	for i, b := range blocks {
		assert.Equal(t, fmt.Sprintf("echo %d", i), b.Cmd)
	}

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, "echo 4", last.Cmd)
	assert.Equal(t, 5, tr.Len())
}

func TestTranscript_String(t *testing.T) {
	tr := New()
	tr.Append(Block{Cmd: "echo a", Stdout: "a\n"})
	tr.Append(Block{Cmd: "echo b 1>&2", Stderr: "b\n"})

	assert.Equal(t, "$ echo a\na\n\n\n$ echo b 1>&2\n\nb\n\n", tr.String())
}

func TestTranscript_BlocksIsACopy(t *testing.T) {
	tr := New()
	tr.Append(Block{Cmd: "one"})

	blocks := tr.Blocks()
	blocks[0].Cmd = "changed"

	last, _ := tr.Last()
	assert.Equal(t, "one", last.Cmd)
}

func TestTranscript_ConcurrentReaders(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = tr.String()
				_ = tr.Len()
			}
		}()
	}
	for i := range 100 {
		tr.Append(Block{Cmd: fmt.Sprint(i)})
	}
	wg.Wait()

	assert.Equal(t, 100, tr.Len())
}
