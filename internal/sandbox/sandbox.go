package sandbox

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"webwright/internal/logging"
)

// ErrPathEscape is returned when a path resolves outside the sandbox root.
var ErrPathEscape = fmt.Errorf("path escapes sandbox")

// Sandbox confines all file operations to a single root directory.
// Relative tool paths resolve under the root; anything that resolves
// outside it, through "..", absolute paths, or symlinks, is rejected.
type Sandbox struct {
	root string
}

// New creates a Sandbox rooted at dir. The directory does not have to
// exist yet; call Ensure before first use.
func New(dir string) (*Sandbox, error) {
	if dir == "" {
		return nil, fmt.Errorf("sandbox root cannot be empty")
	}
	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root: %w", err)
	}
	return &Sandbox{root: abs}, nil
}

// Root returns the absolute sandbox root directory.
func (s *Sandbox) Root() string {
	return s.root
}

// Ensure creates the sandbox root if missing and records it in a
// .gitignore next to it so generated trees stay out of version control.
func (s *Sandbox) Ensure() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create sandbox root: %w", err)
	}
	if err := s.appendGitignore(); err != nil {
		logging.Warn("failed to update .gitignore", "error", err)
	}
	return nil
}

// appendGitignore adds the sandbox directory name to the .gitignore in
// the process working directory, once.
func (s *Sandbox) appendGitignore() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(wd, s.root)
	if err != nil || strings.HasPrefix(rel, "..") {
		// Sandbox lives outside the working tree, nothing to ignore
		return nil
	}

	entry := rel + "/"
	gitignore := filepath.Join(wd, ".gitignore")

	data, err := os.ReadFile(gitignore)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry || strings.TrimSpace(line) == rel {
			return nil
		}
	}

	f, err := os.OpenFile(gitignore, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(entry + "\n")
	return err
}

// Resolve maps a tool-supplied path to an absolute path inside the
// sandbox. It rejects null bytes, absolute paths outside the root,
// ".." escapes, and symlink targets that leave the root.
func (s *Sandbox) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("null byte in path: %w", ErrPathEscape)
	}

	clean := filepath.Clean(path)

	var abs string
	if filepath.IsAbs(clean) {
		abs = clean
	} else {
		abs = filepath.Join(s.root, clean)
	}

	if !s.within(abs) {
		return "", fmt.Errorf("path %q: %w", path, ErrPathEscape)
	}

	// Resolve symlinks so a link inside the sandbox cannot point out of
	// it. For paths that do not exist yet, resolve the nearest existing
	// ancestor instead.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve symlinks: %w", err)
		}
		resolved, err = s.resolveMissing(abs)
		if err != nil {
			return "", err
		}
	}

	if !s.within(resolved) {
		return "", fmt.Errorf("path %q: %w", path, ErrPathEscape)
	}

	return resolved, nil
}

// resolveMissing resolves symlinks for a path that does not exist by
// walking up to the nearest existing ancestor and re-joining the
// remaining components.
func (s *Sandbox) resolveMissing(abs string) (string, error) {
	dir := abs
	var tail []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		tail = append([]string{filepath.Base(dir)}, tail...)
		dir = parent

		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve parent path: %w", err)
		}
	}
}

// within reports whether abs is the root or a descendant of it.
func (s *Sandbox) within(abs string) bool {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// Rel returns the sandbox-relative form of an absolute path.
func (s *Sandbox) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q: %w", abs, ErrPathEscape)
	}
	return filepath.ToSlash(rel), nil
}

// List walks the sandbox tree and returns the relative paths of all
// regular files, sorted by the walk order.
func (s *Sandbox) List() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sandbox: %w", err)
	}
	return files, nil
}
