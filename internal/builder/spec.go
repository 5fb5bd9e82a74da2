package builder

import (
	"fmt"
	"os"
)

// DefaultSpecPath is where the site specification is expected when no
// explicit path is given.
const DefaultSpecPath = "docs/spec.md"

// ErrMissingSpec is returned when the spec file cannot be found.
var ErrMissingSpec = fmt.Errorf("spec file not found")

// LoadSpec reads the site specification from path.
func LoadSpec(path string) (string, error) {
	if path == "" {
		path = DefaultSpecPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrMissingSpec, path)
		}
		return "", fmt.Errorf("failed to read spec: %w", err)
	}
	return string(data), nil
}
