package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"webwright/internal/sandbox"
	"webwright/internal/tracker"
)

func newTestSandbox(t *testing.T) *sandbox.Sandbox {
	t.Helper()
	sb, err := sandbox.New(filepath.Join(t.TempDir(), "site"))
	if err != nil {
		t.Fatalf("sandbox.New: %v", err)
	}
	if err := sb.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	return sb
}

func TestWriteFileCreatesParents(t *testing.T) {
	sb := newTestSandbox(t)
	tr := tracker.New(sb.Root())
	tool := NewWriteFileTool(sb, tr)

	result, err := tool.Execute(context.Background(), map[string]any{
		"path":    "css/style.css",
		"content": "body { margin: 0; }\n",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Success {
		t.Fatalf("write failed: %s", result.Error)
	}
	if !strings.Contains(result.Content, "Created new file") {
		t.Errorf("unexpected status: %s", result.Content)
	}

	data, err := os.ReadFile(filepath.Join(sb.Root(), "css", "style.css"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "body { margin: 0; }\n" {
		t.Errorf("written content = %q", data)
	}

	if _, err := os.Stat(tr.LogPath()); err != nil {
		t.Errorf("write did not create change log: %v", err)
	}
}

func TestWriteFileOverwriteReportsUpdate(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewWriteFileTool(sb, tracker.New(sb.Root()))

	args := map[string]any{"path": "index.html", "content": "<h1>v1</h1>"}
	first, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(first.Content, "+<h1>v1</h1>") {
		t.Errorf("create result missing diff: %s", first.Content)
	}

	args["content"] = "<h1>v2</h1>"
	result, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "Updated file") {
		t.Errorf("unexpected status: %s", result.Content)
	}
	if !strings.Contains(result.Content, "-<h1>v1</h1>") || !strings.Contains(result.Content, "+<h1>v2</h1>") {
		t.Errorf("update result missing diff: %s", result.Content)
	}
}

func TestWriteFileResultStaysWithinCap(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewWriteFileTool(sb, tracker.New(sb.Root()))

	result, err := tool.Execute(context.Background(), map[string]any{
		"path":    "big.html",
		"content": strings.Repeat("x", MaxOutputBytes*2) + "\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Content) > MaxOutputBytes {
		t.Errorf("result length = %d, want <= %d", len(result.Content), MaxOutputBytes)
	}
	if !strings.Contains(result.Content, "Created new file") {
		t.Errorf("status truncated away: %.80s", result.Content)
	}
}

func TestWriteFileRejectsEscape(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewWriteFileTool(sb, nil)

	result, err := tool.Execute(context.Background(), map[string]any{
		"path":    "../outside.html",
		"content": "nope",
	})
	if err != nil {
		t.Fatalf("escape must surface as error result, got error: %v", err)
	}
	if result.Success {
		t.Error("write outside sandbox succeeded")
	}
}

func TestReadFileNotFound(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewReadFileTool(sb)

	result, err := tool.Execute(context.Background(), map[string]any{"path": "missing.html"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Success {
		t.Error("reading a missing file should produce an error result")
	}
	if !strings.Contains(result.Error, "file not found") {
		t.Errorf("unexpected error text: %s", result.Error)
	}
}

func TestReadFileRoundTrip(t *testing.T) {
	sb := newTestSandbox(t)
	if err := os.WriteFile(filepath.Join(sb.Root(), "index.html"), []byte("<h1>Hi</h1>"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewReadFileTool(sb).Execute(context.Background(), map[string]any{"path": "index.html"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "<h1>Hi</h1>" {
		t.Errorf("read content = %q", result.Content)
	}
}

func TestListFilesEmptyAndPopulated(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewListFilesTool(sb)

	result, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "(empty sandbox)" {
		t.Errorf("empty sandbox listing = %q", result.Content)
	}

	if err := os.WriteFile(filepath.Join(sb.Root(), "index.html"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	result, err = tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "index.html") {
		t.Errorf("listing missing file: %q", result.Content)
	}
}

func TestRunCmdOutput(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewRunCmdTool(sb)

	result, err := tool.Execute(context.Background(), map[string]any{"cmd": "echo hello"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "hello") {
		t.Errorf("run_cmd output = %q", result.Content)
	}
}

func TestRunCmdRunsInSandbox(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewRunCmdTool(sb)

	result, err := tool.Execute(context.Background(), map[string]any{"cmd": "pwd"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, filepath.Base(sb.Root())) {
		t.Errorf("run_cmd cwd = %q, want under %q", result.Content, sb.Root())
	}
}

func TestRunCmdTimeoutMarker(t *testing.T) {
	sb := newTestSandbox(t)
	tool := NewRunCmdTool(sb)
	tool.SetTimeout(200 * time.Millisecond)

	result, err := tool.Execute(context.Background(), map[string]any{
		"cmd": "echo partial && sleep 5",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "partial") {
		t.Errorf("partial output lost: %q", result.Content)
	}
	if !strings.HasSuffix(result.Content, TimeoutMarker) {
		t.Errorf("missing timeout marker: %q", result.Content)
	}
}

func TestSearchDocs(t *testing.T) {
	sb := newTestSandbox(t)
	docs := filepath.Join(sb.Root(), "docs")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "layout.md"), []byte("The hero banner uses flexbox."), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "other.txt"), []byte("nothing relevant"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := NewSearchDocsTool(sb)
	result, err := tool.Execute(context.Background(), map[string]any{"query": "FLEXBOX"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "layout.md:") {
		t.Errorf("match missing file name: %q", result.Content)
	}
	if strings.Contains(result.Content, "other.txt") {
		t.Errorf("non-matching file reported: %q", result.Content)
	}

	result, err = tool.Execute(context.Background(), map[string]any{"query": "nonexistent term"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "no matches") {
		t.Errorf("expected no-match message, got %q", result.Content)
	}
}

func TestEnvInfo(t *testing.T) {
	sb := newTestSandbox(t)
	result, err := NewEnvInfoTool(sb).Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "os:") || !strings.Contains(result.Content, sb.Root()) {
		t.Errorf("env_info output = %q", result.Content)
	}
}

func TestInitProjectNoOpWithMarker(t *testing.T) {
	sb := newTestSandbox(t)
	if err := os.WriteFile(filepath.Join(sb.Root(), "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewInitProjectTool(sb).Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "project already initialized" {
		t.Errorf("init_project with marker = %q", result.Content)
	}
}

func TestTruncateCapsOutput(t *testing.T) {
	long := strings.Repeat("x", MaxOutputBytes+100)
	got, truncated := Truncate(long)
	if len(got) != MaxOutputBytes {
		t.Errorf("truncated length = %d, want %d", len(got), MaxOutputBytes)
	}
	if !truncated {
		t.Error("truncated flag not set")
	}

	got, truncated = Truncate("short")
	if got != "short" || truncated {
		t.Errorf("short input mangled: %q %v", got, truncated)
	}
}

func TestValidateMissingArgs(t *testing.T) {
	sb := newTestSandbox(t)

	tests := []struct {
		tool Tool
		args map[string]any
	}{
		{NewWriteFileTool(sb, nil), map[string]any{"content": "x"}},
		{NewWriteFileTool(sb, nil), map[string]any{"path": "a"}},
		{NewReadFileTool(sb), map[string]any{}},
		{NewRunCmdTool(sb), map[string]any{"cmd": "  "}},
		{NewSearchDocsTool(sb), map[string]any{}},
	}

	for _, tt := range tests {
		if err := tt.tool.Validate(tt.args); err == nil {
			t.Errorf("%s.Validate(%v) = nil, want error", tt.tool.Name(), tt.args)
		}
	}
}

func TestDefaultRegistryCatalog(t *testing.T) {
	sb := newTestSandbox(t)
	r := DefaultRegistry(sb, tracker.New(sb.Root()))

	want := []string{"write_file", "read_file", "list_files", "run_cmd", "search_docs", "env_info", "init_project"}
	for _, name := range want {
		if _, ok := r.Get(name); !ok {
			t.Errorf("registry missing tool %q", name)
		}
	}
	if len(r.Names()) != len(want) {
		t.Errorf("registry has %d tools, want %d", len(r.Names()), len(want))
	}
	if decls := r.Declarations(); len(decls) != len(want) {
		t.Errorf("registry has %d declarations, want %d", len(decls), len(want))
	}
}
