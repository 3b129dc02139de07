// Package shell runs a single line of text through the host's command
// interpreter and captures what it printed.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"time"
)

// Interpreter is the program a command line is handed to, together with the
// arguments that precede the line (for example "/bin/sh" and ["-c"]).
type Interpreter struct {
	Path string
	Args []string
}

// Result is the captured output of one invocation.
type Result struct {
	Stdout string
	Stderr string
	// ExitCode is -1 when the interpreter could not be started.
	ExitCode     int
	LaunchFailed bool
	Duration     time.Duration
}

// Runner executes command lines one at a time. It holds no per-call state.
type Runner struct {
	interp  Interpreter
	decoder *Decoder
}

// NewRunner returns a Runner using interp. A zero Interpreter selects the
// platform default, a nil decoder selects UTF-8.
func NewRunner(interp Interpreter, decoder *Decoder) *Runner {
	if interp.Path == "" {
		interp = DefaultInterpreter()
	}
	if decoder == nil {
		decoder, _ = NewDecoder("utf-8")
	}
	return &Runner{interp: interp, decoder: decoder}
}

// Interpreter returns the interpreter commands are run through.
func (r *Runner) Interpreter() Interpreter { return r.interp }

// Run hands line to the interpreter unmodified, waits for it to exit and
// returns its decoded stdout and stderr. A non-zero exit status or a failure
// to start the interpreter is reported through the Result, not as an error;
// the only error is ErrUndecodable.
func (r *Runner) Run(ctx context.Context, line string) (Result, error) {
	args := append(slices.Clone(r.interp.Args), line)
	cmd := exec.CommandContext(ctx, r.interp.Path, args...)
	prepareCommand(cmd, r.interp, line)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t0 := time.Now()
	err := cmd.Run()
	res := Result{Duration: time.Since(t0)}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.LaunchFailed = true
			slog.Warn("shell: interpreter failed to start", "interpreter", r.interp.Path, "err", err)
			if stderr.Len() > 0 && !bytes.HasSuffix(stderr.Bytes(), []byte("\n")) {
				stderr.WriteByte('\n')
			}
			stderr.WriteString(err.Error())
		}
	}

	if res.Stdout, err = r.decoder.Decode(stdout.Bytes()); err != nil {
		return Result{}, fmt.Errorf("stdout: %w", err)
	}
	if res.Stderr, err = r.decoder.Decode(stderr.Bytes()); err != nil {
		return Result{}, fmt.Errorf("stderr: %w", err)
	}
	return res, nil
}
