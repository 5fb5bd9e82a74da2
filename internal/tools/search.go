package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"google.golang.org/genai"

	"webwright/internal/sandbox"
)

// SnippetBytes is the per-file excerpt size returned by search_docs.
const SnippetBytes = 2000

// docPatterns matches the documentation files the search tool scans.
var docPatterns = []string{"docs/**/*.md", "docs/**/*.txt"}

// SearchDocsTool searches reference documentation stored in the
// sandbox under docs/.
type SearchDocsTool struct {
	sandbox *sandbox.Sandbox
}

// NewSearchDocsTool creates a new SearchDocsTool instance.
func NewSearchDocsTool(sb *sandbox.Sandbox) *SearchDocsTool {
	return &SearchDocsTool{sandbox: sb}
}

func (t *SearchDocsTool) Name() string {
	return "search_docs"
}

func (t *SearchDocsTool) Description() string {
	return "Searches markdown and text files under docs/ for a query string and returns matching excerpts."
}

func (t *SearchDocsTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query": {
					Type:        genai.TypeString,
					Description: "Text to search for, case-insensitive",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *SearchDocsTool) Validate(args map[string]any) error {
	query, ok := GetString(args, "query")
	if !ok || strings.TrimSpace(query) == "" {
		return NewValidationError("query", "is required")
	}
	return nil
}

func (t *SearchDocsTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	query, _ := GetString(args, "query")
	needle := strings.ToLower(query)

	root := os.DirFS(t.sandbox.Root())
	var matches []string
	for _, pattern := range docPatterns {
		found, err := doublestar.Glob(root, pattern)
		if err != nil {
			return NewErrorResult(fmt.Sprintf("error matching docs: %s", err)), nil
		}
		matches = append(matches, found...)
	}

	var b strings.Builder
	for _, rel := range matches {
		data, err := os.ReadFile(filepath.Join(t.sandbox.Root(), filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		content := string(data)
		if !strings.Contains(strings.ToLower(content), needle) {
			continue
		}

		snippet := content
		if len(snippet) > SnippetBytes {
			snippet = snippet[:SnippetBytes]
		}
		b.WriteString(rel)
		b.WriteString(":\n")
		b.WriteString(snippet)
		b.WriteString("\n\n")
		if b.Len() >= MaxOutputBytes {
			break
		}
	}

	if b.Len() == 0 {
		return NewSuccessResult(fmt.Sprintf("no matches for %q", query)), nil
	}
	text, _ := Truncate(b.String())
	return NewSuccessResult(text), nil
}
