//go:build windows

package shell

import (
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// DefaultInterpreter is %COMSPEC% /C, falling back to cmd.exe.
func DefaultInterpreter() Interpreter {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	return Interpreter{Path: comspec, Args: []string{"/C"}}
}

// cmd.exe does its own parsing of the raw command line, so the line is passed
// through verbatim instead of being quoted as an argv element.
func prepareCommand(cmd *exec.Cmd, interp Interpreter, line string) {
	parts := append([]string{syscall.EscapeArg(interp.Path)}, interp.Args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: strings.Join(parts, " ") + " " + line,
	}
}
