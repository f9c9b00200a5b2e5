package testsupport

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// WriteCatalog writes lines, newline terminated, to path.
func WriteCatalog(t testing.TB, path string, lines ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write catalog %s: %v", path, err)
	}
}

// Touch creates empty files with the given names inside dir.
func Touch(t testing.TB, dir string, names ...string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("touch %s: %v", path, err)
		}
	}
}

// ListNames returns the sorted entry names of dir.
func ListNames(t testing.TB, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}

// AssertNames fails the test unless dir holds exactly want (any order).
func AssertNames(t testing.TB, dir string, want ...string) {
	t.Helper()

	got := ListNames(t, dir)
	sorted := append([]string(nil), want...)
	slices.Sort(sorted)
	if !slices.Equal(got, sorted) {
		t.Fatalf("directory %s holds %q, want %q", dir, got, sorted)
	}
}
