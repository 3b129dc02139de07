package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// TranscriptID is the DOM id of the transcript pane.
const TranscriptID = "transcript"

// TranscriptPane renders the empty transcript pane.
func TranscriptPane() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s" class="transcript"></div>`, TranscriptID)
		return err
	})
}

// TranscriptBlock renders one block as preformatted text. The text is the
// block's transcript form; the stream sections are wrapped so stderr can be
// styled apart.
func TranscriptBlock(id, prompt, cmd, stdout, stderr string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<pre class="block" id="block-%s"><span class="prompt">%s</span><span class="cmd">%s</span>`+"\n"+
				`<span class="stdout">%s</span>`+"\n"+
				`<span class="stderr">%s</span>`+"\n</pre>",
			templ.EscapeString(id),
			templ.EscapeString(prompt),
			templ.EscapeString(cmd),
			templ.EscapeString(stdout),
			templ.EscapeString(stderr),
		)
		return err
	})
}

// ScrollToEnd is the script that moves the transcript pane to its newest content.
func ScrollToEnd() string {
	return fmt.Sprintf(`(() => { const el = document.getElementById(%q); if (el) { el.scrollTop = el.scrollHeight; } })()`, TranscriptID)
}
