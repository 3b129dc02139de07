package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"shellpane/internal/messages"
	"shellpane/internal/transcript"

	"github.com/nats-io/nats.go/jetstream"
	datastar "github.com/starfederation/datastar/sdk/go"
)

const maxBodyBytes = 1 << 20

// CommandPublisher publishes submitted command lines.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, cmd messages.Command) error
}

// terminalSignals mirrors the page's datastar signals.
type terminalSignals struct {
	Cmd string `json:"cmd"`
}

// Health returns 200 OK.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// TerminalCommandHandler accepts one submitted line and queues it for the
// terminal engine. Datastar requests get an SSE response that clears the
// input field straight away; the block arrives later on the UI stream.
// Other clients may post a form field "cmd" or a JSON body {"cmd": "..."}.
// An empty line is a valid submission.
func TerminalCommandHandler(pub CommandPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionID(r)
		if sid == "" {
			http.Error(w, "missing session ID", http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		if r.Header.Get("Datastar-Request") == "true" {
			var sig terminalSignals
			if err := datastar.ReadSignals(r, &sig); err != nil {
				http.Error(w, "invalid signals", http.StatusBadRequest)
				return
			}
			sse := datastar.NewSSE(w, r)
			if err := sse.MarshalAndMergeSignals(terminalSignals{}); err != nil {
				slog.Warn("terminal: clear input", "sid", sid, "err", err)
			}
			if err := pub.PublishCommand(r.Context(), messages.NewTerminalCommandMessage(sid, sig.Cmd)); err != nil {
				slog.Error("terminal: publish command", "sid", sid, "err", err)
			}
			return
		}

		cmdText, err := readCommandLine(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := pub.PublishCommand(r.Context(), messages.NewTerminalCommandMessage(sid, cmdText)); err != nil {
			http.Error(w, fmt.Sprintf("publish error: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
	}
}

// readCommandLine extracts "cmd" from a JSON, multipart or urlencoded body.
func readCommandLine(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "application/json"):
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		return messages.DecodeTerminalCommandBody(data)
	case strings.Contains(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return "", errors.New("invalid multipart form data")
		}
	default:
		if err := r.ParseForm(); err != nil {
			return "", errors.New("invalid form data")
		}
	}
	if !r.Form.Has("cmd") {
		return "", errors.New("missing cmd")
	}
	return r.Form.Get("cmd"), nil
}

// TranscriptHandler writes the session's transcript as plain text.
func TranscriptHandler(js jetstream.JetStream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionID(r)
		t, err := transcript.Load(r.Context(), js, sid)
		if err != nil {
			slog.Error("transcript: load", "sid", sid, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := t.WriteTo(w); err != nil {
			slog.Warn("transcript: write", "sid", sid, "err", err)
		}
	}
}
