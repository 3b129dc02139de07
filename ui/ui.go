// Package ui holds the terminal page and its static assets.
package ui

import (
	"context"
	"embed"
	"io"

	"github.com/a-h/templ"
)

//go:embed static
var StaticFS embed.FS

//go:embed static/favicon.svg
var FaviconSVG []byte

//go:embed help.md
var HelpMarkdown []byte

// DatastarScript is the client bundle matching the Go SDK version in go.mod.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-beta.11/bundles/datastar.js"

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Shell Terminal</title>
  <link rel="icon" href="/favicon.svg" type="image/svg+xml">
  <link rel="stylesheet" href="/static/terminal.css">
  <script type="module" src="` + DatastarScript + `"></script>
</head>
<body data-signals="{cmd: ''}">
  <main class="terminal" data-on-load="@get('/ui')">
    <div id="transcript" class="transcript"></div>
    <input id="cmd" class="input" type="text" autocomplete="off" autofocus spellcheck="false"
      data-bind-cmd
      data-on-keydown="evt.key === 'Enter' && @post('/terminal')">
  </main>
  <footer><a href="/help">help</a> · <a href="/transcript">plain text</a></footer>
</body>
</html>
`

// Index renders the terminal page: the transcript pane and the input field.
func Index() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, indexHTML)
		return err
	})
}
