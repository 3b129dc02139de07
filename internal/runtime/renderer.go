package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"shellpane/internal/messages"

	"github.com/a-h/templ"
	"github.com/nats-io/nats.go/jetstream"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// Patcher is the part of the datastar SSE generator renderers write to.
type Patcher interface {
	MergeFragmentTempl(c templ.Component, opts ...datastar.MergeFragmentOption) error
	ExecuteScript(script string, opts ...datastar.ExecuteScriptOption) error
}

// RenderFunc renders one message into the SSE stream.
type RenderFunc func(ctx context.Context, msg jetstream.Msg, sse Patcher) error

type Renderer struct {
	Pattern    string
	MatchFunc  func(string) bool
	RenderFunc RenderFunc
}

// RendererSpec is a catalogue entry: a wildcard pattern and a factory that
// builds a concrete Renderer for a subscribed subject matching it.
type RendererSpec struct {
	Pattern string
	Build   func(subj string) Renderer
}

// Specs is filled by renderers.go during init and treated as read-only.
var Specs []RendererSpec

// ForSubjects materialises a renderer for every (subject, spec) pair where
// the subject matches the spec's pattern. The fallback renderer is always
// last.
func ForSubjects(subjects []string) []Renderer {
	out := make([]Renderer, 0, len(subjects)+1)
	seen := make(map[string]struct{})
	for _, s := range subjects {
		for _, spec := range Specs {
			if !messages.SubjectMatches(spec.Pattern, s) {
				continue
			}
			key := spec.Pattern + "|" + s
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, spec.Build(s))
		}
	}
	return append(out, fallback)
}

// Dispatch hands msg to the first renderer that matches its subject.
func Dispatch(ctx context.Context, renderers []Renderer, msg jetstream.Msg, sse Patcher) error {
	for _, r := range renderers {
		if r.MatchFunc(msg.Subject()) {
			return r.RenderFunc(ctx, msg, sse)
		}
	}
	return nil
}

func newRenderer(pattern string, fn RenderFunc) Renderer {
	return Renderer{
		Pattern:    pattern,
		MatchFunc:  func(subj string) bool { return messages.SubjectMatches(pattern, subj) },
		RenderFunc: fn,
	}
}

// newTypedRenderer decodes the JSON payload into T and invokes handler.
func newTypedRenderer[T any](pattern string, handler func(context.Context, jetstream.Msg, Patcher, T) error) Renderer {
	return newRenderer(pattern, func(ctx context.Context, msg jetstream.Msg, sse Patcher) error {
		var p T
		dec := json.NewDecoder(bytes.NewReader(msg.Data()))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("decode %T: %w", p, err)
		}
		return handler(ctx, msg, sse, p)
	})
}

// fallback drops anything no spec claimed.
var fallback = newRenderer(">", func(_ context.Context, msg jetstream.Msg, _ Patcher) error {
	slog.Debug("render: no renderer for subject", "subject", msg.Subject())
	return nil
})
