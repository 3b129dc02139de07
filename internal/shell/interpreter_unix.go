//go:build !windows

package shell

import (
	"os/exec"
)

// DefaultInterpreter is /bin/sh -c, the same interpreter system(3) uses.
func DefaultInterpreter() Interpreter {
	return Interpreter{Path: "/bin/sh", Args: []string{"-c"}}
}

func prepareCommand(*exec.Cmd, Interpreter, string) {}
