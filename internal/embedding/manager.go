package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"webwright/internal/logging"
)

// Manager keeps the embedding cache in sync with sandbox content.
// Every failure is logged and swallowed: embeddings are derived data
// and must never fail the write that triggered the refresh.
type Manager struct {
	root     string
	cache    *Cache
	embedder Embedder
}

// NewManager creates a manager for the sandbox at root.
func NewManager(root string, embedder Embedder) *Manager {
	if embedder == nil {
		embedder = NoopEmbedder{}
	}
	return &Manager{
		root:     root,
		cache:    NewCache(root),
		embedder: embedder,
	}
}

// Cache exposes the underlying store, mainly for tests.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// UpdateFile refreshes the cached embedding for one sandbox-relative
// path. Unchanged content, detected by hash, is skipped entirely.
func (m *Manager) UpdateFile(ctx context.Context, relPath string) {
	if relPath == CacheFileName || filepath.Base(relPath) == "changes.log" {
		return
	}

	data, err := os.ReadFile(filepath.Join(m.root, filepath.FromSlash(relPath)))
	if err != nil {
		if os.IsNotExist(err) {
			if err := m.cache.Remove(relPath); err != nil {
				logging.Warn("failed to drop embedding entry", "path", relPath, "error", err)
			}
			return
		}
		logging.Warn("failed to read file for embedding", "path", relPath, "error", err)
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if cached, ok := m.cache.Hash(relPath); ok && cached == hash {
		return
	}

	vector, err := m.embedder.Embed(ctx, string(data))
	if err != nil {
		logging.Warn("embedding failed", "path", relPath, "error", err)
		return
	}

	if err := m.cache.Put(relPath, Entry{Hash: hash, Vector: vector}); err != nil {
		logging.Warn("failed to persist embedding cache", "path", relPath, "error", err)
	}
}
