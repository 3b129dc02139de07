package components

import (
	"bytes"
	"context"
	"html"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tags = regexp.MustCompile(`<[^>]+>`)

func render(t *testing.T, id, cmd, stdout, stderr string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, TranscriptBlock(id, "$ ", cmd, stdout, stderr).Render(context.Background(), &buf))
	return buf.String()
}

func TestTranscriptBlock_TextContentIsTheBlockText(t *testing.T) {
	out := render(t, "b1", "echo hello", "hello\n", "")

	text := html.UnescapeString(tags.ReplaceAllString(out, ""))
	assert.Equal(t, "$ echo hello\nhello\n\n\n", text)
}

func TestTranscriptBlock_EscapesOutput(t *testing.T) {
	out := render(t, "b2", `echo "<script>"`, "<script>\n", "a & b\n")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &amp; b")
}

func TestTranscriptPane(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TranscriptPane().Render(context.Background(), &buf))
	assert.Equal(t, `<div id="transcript" class="transcript"></div>`, buf.String())
}

func TestScrollToEnd(t *testing.T) {
	assert.Contains(t, ScrollToEnd(), `getElementById("transcript")`)
}
