package tool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	contractx "github.com/pattarapon/agentrun/agent/contract"
)

const (
	ToolTerminal = "terminal"

	defaultCommandTimeout = 30 * time.Second
)

type TerminalOutput struct {
	Command  string `json:"command"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// TerminalTool runs a shell command with a bounded timeout. No sandboxing
// beyond the timeout; callers own the blast radius of the command.
type TerminalTool struct {
	// Timeout overrides the default command deadline when positive.
	Timeout time.Duration
}

func (t *TerminalTool) Spec() contractx.ToolSpec {
	return contractx.ToolSpec{
		Name:        ToolTerminal,
		Description: "Run a shell command and capture stdout, stderr, and the exit code.",
		Params: map[string]contractx.ParamSpec{
			"command": {Type: contractx.ParamString, Description: "Command to run", Required: true},
			"cwd":     {Type: contractx.ParamString, Description: "Working directory (optional)"},
		},
	}
}

func (t *TerminalTool) Call(ctx context.Context, args map[string]any) contractx.ToolOutcome {
	command, ok := args["command"].(string)
	if !ok || strings.TrimSpace(command) == "" {
		return contractx.ToolOutcome{Error: "command must be a non-empty string"}
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if cwd, ok := args["cwd"].(string); ok && strings.TrimSpace(cwd) != "" {
		cmd.Dir = cwd
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return contractx.ToolOutcome{Error: "command timed out"}
	}

	out := TerminalOutput{
		Command: command,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			message := strings.TrimSpace(stderr.String())
			if message == "" {
				message = err.Error()
			}
			return contractx.ToolOutcome{Output: out, Error: message}
		}
		return contractx.ToolOutcome{Error: err.Error()}
	}

	return contractx.ToolOutcome{Success: true, Output: out}
}
