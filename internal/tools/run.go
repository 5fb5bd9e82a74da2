package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"google.golang.org/genai"

	"webwright/internal/sandbox"
)

// DefaultRunTimeout bounds every shell command.
const DefaultRunTimeout = 30 * time.Second

// TimeoutMarker is appended to the output of a command that hit its
// deadline, after whatever partial output it produced.
const TimeoutMarker = "<timeout>"

// SafeEnvVars is the whitelist of environment variables passed to
// shell commands, so provider API keys never leak into builds.
var SafeEnvVars = []string{
	"PATH",
	"HOME",
	"USER",
	"SHELL",
	"TERM",
	"LANG",
	"LC_ALL",
	"TMPDIR",
	"NODE_PATH",
	"NPM_CONFIG_PREFIX",
}

// RunCmdTool executes shell commands inside the sandbox.
type RunCmdTool struct {
	sandbox *sandbox.Sandbox
	timeout time.Duration
}

// NewRunCmdTool creates a new RunCmdTool instance.
func NewRunCmdTool(sb *sandbox.Sandbox) *RunCmdTool {
	return &RunCmdTool{
		sandbox: sb,
		timeout: DefaultRunTimeout,
	}
}

// SetTimeout overrides the command deadline. Used by tests.
func (t *RunCmdTool) SetTimeout(d time.Duration) {
	t.timeout = d
}

func (t *RunCmdTool) Name() string {
	return "run_cmd"
}

func (t *RunCmdTool) Description() string {
	return "Runs a shell command in the sandbox directory and returns its combined output. Commands are killed after 30 seconds."
}

func (t *RunCmdTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"cmd": {
					Type:        genai.TypeString,
					Description: "The shell command to run",
				},
			},
			Required: []string{"cmd"},
		},
	}
}

func (t *RunCmdTool) Validate(args map[string]any) error {
	cmd, ok := GetString(args, "cmd")
	if !ok || strings.TrimSpace(cmd) == "" {
		return NewValidationError("cmd", "is required")
	}
	return nil
}

// buildSafeEnv creates a sanitized environment for command execution.
func buildSafeEnv() []string {
	env := make([]string, 0, len(SafeEnvVars))
	hasPath := false
	for _, key := range SafeEnvVars {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
			if key == "PATH" {
				hasPath = true
			}
		}
	}
	if !hasPath {
		env = append(env, "PATH=/usr/local/bin:/usr/bin:/bin")
	}
	return env
}

func (t *RunCmdTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	command, _ := GetString(args, "cmd")

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-c", command)
	cmd.Dir = t.sandbox.Root()
	cmd.Env = buildSafeEnv()

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	text := output.String()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		// Partial output survives the kill, the marker must too
		limit := MaxOutputBytes - len(TimeoutMarker) - 1
		if len(text) > limit {
			text = text[:limit]
		}
		return NewSuccessResult(text + "\n" + TimeoutMarker), nil
	}

	if err != nil {
		text = fmt.Sprintf("%scommand failed: %s", text, err)
	}
	text, _ = Truncate(text)
	if text == "" {
		text = "(no output)"
	}
	return NewSuccessResult(text), nil
}
