package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"webwright/internal/logging"
)

// LogFileName is the append-only change log kept inside the sandbox.
const LogFileName = "changes.log"

// Updater receives the path of a file whose content changed so derived
// artifacts can be refreshed. Implemented by embedding.Manager.
type Updater interface {
	UpdateFile(ctx context.Context, relPath string)
}

// Tracker records every successful write as a timestamped unified diff
// in an append-only log. Log failures never fail the write that
// triggered them.
type Tracker struct {
	root    string
	updater Updater
	mu      sync.Mutex
}

// New creates a Tracker writing its log under root.
func New(root string) *Tracker {
	return &Tracker{root: root}
}

// SetUpdater attaches a derived-artifact updater called after each
// recorded write.
func (t *Tracker) SetUpdater(u Updater) {
	t.updater = u
}

// LogPath returns the absolute path of the change log.
func (t *Tracker) LogPath() string {
	return filepath.Join(t.root, LogFileName)
}

// RecordWrite logs the change for one completed write, refreshes
// derived artifacts, and returns the unified diff so the caller can
// surface it. An entry is appended even when the content did not
// change.
func (t *Tracker) RecordWrite(ctx context.Context, relPath, old, new string) string {
	diff := UnifiedDiff(relPath, old, new)

	if err := t.appendEntry(relPath, diff); err != nil {
		logging.Warn("failed to append change log", "path", relPath, "error", err)
	}

	if t.updater != nil {
		t.updater.UpdateFile(ctx, relPath)
	}

	return diff
}

// appendEntry serializes one timestamped block to the log.
func (t *Tracker) appendEntry(relPath, diff string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	stamp := time.Now().UTC().Format(time.RFC3339)
	if diff == "" {
		diff = "(no changes)\n"
	}
	_, err = fmt.Fprintf(f, "=== %s %s ===\n%s\n", stamp, relPath, diff)
	return err
}
