package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

var helpHTML = sync.OnceValues(func() (string, error) {
	var buf bytes.Buffer
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(highlighting.WithStyle("github")),
		),
	)
	if err := md.Convert(HelpMarkdown, &buf); err != nil {
		return "", fmt.Errorf("render help: %w", err)
	}
	return buf.String(), nil
})

// Help renders the embedded usage notes as an HTML page.
func Help() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		body, err := helpHTML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Shell Terminal: help</title><link rel="stylesheet" href="/static/terminal.css"></head>
<body><article class="help">%s<p><a href="/">back to the terminal</a></p></article></body>
</html>
`, body)
		return err
	})
}
