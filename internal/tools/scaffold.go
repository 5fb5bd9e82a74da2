package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"google.golang.org/genai"

	"webwright/internal/sandbox"
)

// scaffoldTimeout bounds the npm scaffold; package installs are slower
// than ordinary commands.
const scaffoldTimeout = 120 * time.Second

// InitProjectTool scaffolds a Vite project in the sandbox. The scaffold
// is idempotent: an existing package.json marks the sandbox as already
// initialized.
type InitProjectTool struct {
	sandbox *sandbox.Sandbox
}

// NewInitProjectTool creates a new InitProjectTool instance.
func NewInitProjectTool(sb *sandbox.Sandbox) *InitProjectTool {
	return &InitProjectTool{sandbox: sb}
}

func (t *InitProjectTool) Name() string {
	return "init_project"
}

func (t *InitProjectTool) Description() string {
	return "Initializes an npm/Vite project in the sandbox. Does nothing if the sandbox already contains a package.json."
}

func (t *InitProjectTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
	}
}

func (t *InitProjectTool) Validate(args map[string]any) error {
	return nil
}

func (t *InitProjectTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	marker := filepath.Join(t.sandbox.Root(), "package.json")
	if _, err := os.Stat(marker); err == nil {
		return NewSuccessResult("project already initialized"), nil
	}

	runCtx, cancel := context.WithTimeout(ctx, scaffoldTimeout)
	defer cancel()

	script := "npm create vite@latest . -- --template vanilla --yes && npm install"
	cmd := exec.CommandContext(runCtx, "bash", "-c", script)
	cmd.Dir = t.sandbox.Root()
	cmd.Env = buildSafeEnv()

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		text, _ := Truncate(output.String())
		return NewErrorResult(fmt.Sprintf("scaffold failed: %s\n%s", err, text)), nil
	}

	return NewSuccessResult("initialized vite project"), nil
}
