package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Index().Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `id="transcript"`)
	assert.Contains(t, html, `data-bind-cmd`)
	assert.Contains(t, html, `@post('/terminal')`)
	assert.Contains(t, html, `@get('/ui')`)
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Help().Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Shell Terminal")
	assert.Contains(t, html, "<strong>Enter</strong>")
}

func TestStaticAssetsEmbedded(t *testing.T) {
	css, err := StaticFS.ReadFile("static/terminal.css")
	require.NoError(t, err)
	assert.NotEmpty(t, css)
	assert.Contains(t, string(FaviconSVG), "<svg")
}
