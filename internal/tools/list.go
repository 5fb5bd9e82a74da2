package tools

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"webwright/internal/sandbox"
)

// ListFilesTool lists all files in the sandbox recursively.
type ListFilesTool struct {
	sandbox *sandbox.Sandbox
}

// NewListFilesTool creates a new ListFilesTool instance.
func NewListFilesTool(sb *sandbox.Sandbox) *ListFilesTool {
	return &ListFilesTool{sandbox: sb}
}

func (t *ListFilesTool) Name() string {
	return "list_files"
}

func (t *ListFilesTool) Description() string {
	return "Lists all files in the website sandbox as relative paths."
}

func (t *ListFilesTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
	}
}

func (t *ListFilesTool) Validate(args map[string]any) error {
	return nil
}

func (t *ListFilesTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	files, err := t.sandbox.List()
	if err != nil {
		return NewErrorResult(fmt.Sprintf("error listing files: %s", err)), nil
	}
	if len(files) == 0 {
		return NewSuccessResult("(empty sandbox)"), nil
	}
	return NewSuccessResult(strings.Join(files, "\n")), nil
}
