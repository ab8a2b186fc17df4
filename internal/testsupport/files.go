package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file at path filled with size bytes, creating parent
// directories as needed.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
