package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/genai"

	"webwright/internal/sandbox"
	"webwright/internal/tracker"
)

// WriteFileTool writes content to a file inside the sandbox.
type WriteFileTool struct {
	sandbox *sandbox.Sandbox
	tracker *tracker.Tracker
}

// NewWriteFileTool creates a new WriteFileTool instance.
func NewWriteFileTool(sb *sandbox.Sandbox, tr *tracker.Tracker) *WriteFileTool {
	return &WriteFileTool{sandbox: sb, tracker: tr}
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Description() string {
	return "Writes content to a file in the website sandbox. Creates the file and any parent directories if needed, or overwrites an existing file."
}

func (t *WriteFileTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"path": {
					Type:        genai.TypeString,
					Description: "File path relative to the sandbox root",
				},
				"content": {
					Type:        genai.TypeString,
					Description: "The full content to write",
				},
			},
			Required: []string{"path", "content"},
		},
	}
}

func (t *WriteFileTool) Validate(args map[string]any) error {
	path, ok := GetString(args, "path")
	if !ok || path == "" {
		return NewValidationError("path", "is required")
	}
	if _, ok := GetString(args, "content"); !ok {
		return NewValidationError("content", "is required")
	}
	return nil
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")
	content, _ := GetString(args, "content")

	absPath, err := t.sandbox.Resolve(path)
	if err != nil {
		return NewErrorResult(fmt.Sprintf("path validation failed: %s", err)), nil
	}
	relPath, err := t.sandbox.Rel(absPath)
	if err != nil {
		return NewErrorResult(fmt.Sprintf("path validation failed: %s", err)), nil
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return NewErrorResult(fmt.Sprintf("error creating directories: %s", err)), nil
	}

	// Read old content so the change log carries a real diff
	var oldContent []byte
	_, existErr := os.Stat(absPath)
	isNew := os.IsNotExist(existErr)
	if !isNew {
		oldContent, err = os.ReadFile(absPath)
		if err != nil {
			return NewErrorResult(fmt.Sprintf("error reading existing file: %s", err)), nil
		}
	}

	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		return NewErrorResult(fmt.Sprintf("error writing file: %s", err)), nil
	}

	var status string
	if isNew {
		status = fmt.Sprintf("Created new file: %s (%d bytes)", relPath, len(content))
	} else {
		status = fmt.Sprintf("Updated file: %s (%d bytes)", relPath, len(content))
	}

	if t.tracker != nil {
		if diff := t.tracker.RecordWrite(ctx, relPath, string(oldContent), content); diff != "" {
			status, _ = Truncate(status + "\n" + diff)
		}
	}

	return NewSuccessResult(status), nil
}
