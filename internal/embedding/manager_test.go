package embedding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// countingEmbedder tracks how many texts actually reach the backend.
type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2}, nil
}

func writeSandboxFile(t *testing.T, root, rel, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateFileSkipsUnchangedContent(t *testing.T) {
	root := t.TempDir()
	embedder := &countingEmbedder{}
	m := NewManager(root, embedder)

	writeSandboxFile(t, root, "index.html", "<h1>Hi</h1>")

	m.UpdateFile(context.Background(), "index.html")
	m.UpdateFile(context.Background(), "index.html")

	if embedder.calls != 1 {
		t.Errorf("unchanged content embedded %d times, want 1", embedder.calls)
	}

	writeSandboxFile(t, root, "index.html", "<h1>Hello</h1>")
	m.UpdateFile(context.Background(), "index.html")

	if embedder.calls != 2 {
		t.Errorf("changed content not re-embedded, calls = %d", embedder.calls)
	}
}

func TestUpdateFilePersistsCache(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root, &countingEmbedder{})

	writeSandboxFile(t, root, "index.html", "<h1>Hi</h1>")
	m.UpdateFile(context.Background(), "index.html")

	if _, err := os.Stat(filepath.Join(root, CacheFileName)); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	// A fresh manager over the same root sees the persisted hash and
	// skips the embed.
	embedder := &countingEmbedder{}
	again := NewManager(root, embedder)
	again.UpdateFile(context.Background(), "index.html")

	if embedder.calls != 0 {
		t.Errorf("persisted hash ignored, calls = %d", embedder.calls)
	}
}

func TestUpdateFileRemovesDeletedEntries(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root, &countingEmbedder{})

	writeSandboxFile(t, root, "index.html", "<h1>Hi</h1>")
	m.UpdateFile(context.Background(), "index.html")
	if m.Cache().Len() != 1 {
		t.Fatalf("cache length = %d, want 1", m.Cache().Len())
	}

	if err := os.Remove(filepath.Join(root, "index.html")); err != nil {
		t.Fatal(err)
	}
	m.UpdateFile(context.Background(), "index.html")

	if m.Cache().Len() != 0 {
		t.Errorf("deleted file still cached, length = %d", m.Cache().Len())
	}
}

func TestUpdateFileIgnoresDerivedFiles(t *testing.T) {
	root := t.TempDir()
	embedder := &countingEmbedder{}
	m := NewManager(root, embedder)

	writeSandboxFile(t, root, CacheFileName, "{}")
	writeSandboxFile(t, root, "changes.log", "=== entry ===")

	m.UpdateFile(context.Background(), CacheFileName)
	m.UpdateFile(context.Background(), "changes.log")

	if embedder.calls != 0 {
		t.Errorf("derived files embedded %d times, want 0", embedder.calls)
	}
}

func TestUpdateFileSwallowsEmbedderFailure(t *testing.T) {
	root := t.TempDir()
	embedder := &countingEmbedder{err: fmt.Errorf("quota exceeded")}
	m := NewManager(root, embedder)

	writeSandboxFile(t, root, "index.html", "<h1>Hi</h1>")
	m.UpdateFile(context.Background(), "index.html")

	if m.Cache().Len() != 0 {
		t.Errorf("failed embed cached anyway, length = %d", m.Cache().Len())
	}

	// Next attempt retries since no hash was stored.
	m.UpdateFile(context.Background(), "index.html")
	if embedder.calls != 2 {
		t.Errorf("failed embed not retried, calls = %d", embedder.calls)
	}
}

func TestCacheSurvivesCorruptStore(t *testing.T) {
	root := t.TempDir()
	writeSandboxFile(t, root, CacheFileName, "not json{")

	c := NewCache(root)
	if c.Len() != 0 {
		t.Errorf("corrupt store loaded %d entries", c.Len())
	}

	if err := c.Put("index.html", Entry{Hash: "abc"}); err != nil {
		t.Fatalf("Put after corrupt load: %v", err)
	}
	if hash, ok := c.Hash("index.html"); !ok || hash != "abc" {
		t.Errorf("Hash = %q %v", hash, ok)
	}
}
