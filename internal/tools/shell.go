package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// DefaultInterpreter runs commands through the POSIX shell.
var DefaultInterpreter = []string{"sh", "-c"}

// ShellTool runs a command through a system command interpreter.
//
// No timeout is applied and the command is not restricted in any way: the
// output (stdout on success, stderr on a non-zero exit) is returned as the
// tool result either way.
type ShellTool struct {
	interpreter []string
	workingDir  string
}

// NewShellTool creates a ShellTool. An empty interpreter selects
// DefaultInterpreter; workingDir "" means the process working directory.
func NewShellTool(interpreter []string, workingDir string) *ShellTool {
	if len(interpreter) == 0 {
		interpreter = DefaultInterpreter
	}
	ip := make([]string, len(interpreter))
	copy(ip, interpreter)
	return &ShellTool{interpreter: ip, workingDir: workingDir}
}

func (t *ShellTool) Name() ToolName { return ToolRunCommand }

// Execute runs command to completion. ctx is not used to kill the process.
func (t *ShellTool) Execute(_ context.Context, command string) string {
	args := append(append([]string{}, t.interpreter[1:]...), command)
	cmd := exec.Command(t.interpreter[0], args...)
	cmd.Dir = t.workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stderr.String()
	}
	return fmt.Sprintf("Failed to execute command: %v", err)
}
