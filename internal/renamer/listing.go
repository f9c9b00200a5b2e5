package renamer

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"isomagic/internal/services"
)

// listFiles returns the sorted names of dir's direct plain files. Symlinks
// count when they resolve to a regular file.
func listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, services.ClassifyPathError("directory", dir, err)
	}
	if !info.IsDir() {
		return nil, &services.NotFoundError{Kind: "directory", Path: dir, Err: fmt.Errorf("%s is not a directory", dir)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.ClassifyPathError("directory", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		mode := entry.Type()
		switch {
		case mode.IsRegular():
			names = append(names, entry.Name())
		case mode&os.ModeSymlink != 0:
			target, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err == nil && target.Mode().IsRegular() {
				names = append(names, entry.Name())
			}
		}
	}
	slices.Sort(names)
	return names, nil
}

// BaseName strips the last extension. Leading dots never start an extension,
// so ".hidden" keeps its full name.
func BaseName(name string) string {
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	return name[:len(name)-len(ext)]
}
