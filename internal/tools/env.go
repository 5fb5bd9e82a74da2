package tools

import (
	"context"
	"fmt"
	"runtime"

	"google.golang.org/genai"

	"webwright/internal/sandbox"
)

// EnvInfoTool reports the execution environment of the sandbox.
type EnvInfoTool struct {
	sandbox *sandbox.Sandbox
}

// NewEnvInfoTool creates a new EnvInfoTool instance.
func NewEnvInfoTool(sb *sandbox.Sandbox) *EnvInfoTool {
	return &EnvInfoTool{sandbox: sb}
}

func (t *EnvInfoTool) Name() string {
	return "env_info"
}

func (t *EnvInfoTool) Description() string {
	return "Returns information about the build environment: platform, architecture, runtime version and sandbox location."
}

func (t *EnvInfoTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
	}
}

func (t *EnvInfoTool) Validate(args map[string]any) error {
	return nil
}

func (t *EnvInfoTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	info := fmt.Sprintf("os: %s\narch: %s\nruntime: %s\nsandbox: %s",
		runtime.GOOS, runtime.GOARCH, runtime.Version(), t.sandbox.Root())
	return NewSuccessResult(info), nil
}
