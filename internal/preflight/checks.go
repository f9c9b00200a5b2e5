package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"isomagic/internal/catalog"
	"isomagic/internal/services"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog verifies that the catalog file is readable and reports how
// many entries it yields.
func CheckCatalog(name, path string, excludedPrefixes []string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	cat, err := catalog.Load(path, catalog.Options{ExcludedPrefixes: excludedPrefixes})
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	stats := cat.Stats()
	if cat.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no usable entries in %d lines)", path, stats.Lines)}
	}
	detail := fmt.Sprintf("%s (%d entries", path, cat.Len())
	if stats.Excluded > 0 {
		detail += fmt.Sprintf(", %d excluded", stats.Excluded)
	}
	if stats.Malformed > 0 {
		detail += fmt.Sprintf(", %d malformed lines skipped", stats.Malformed)
	}
	return Result{Name: name, Passed: true, Detail: detail + ")"}
}

// DirectoryError checks that path is a directory the process may list and
// modify. It returns nil, a *services.NotFoundError, or a
// *services.PermissionError.
func DirectoryError(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.ClassifyPathError("directory", path, err)
	}
	if !info.IsDir() {
		return &services.NotFoundError{Kind: "directory", Path: path, Err: errors.New("not a directory")}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EROFS) {
			return &services.PermissionError{Kind: "directory", Path: path, Err: err}
		}
		return services.ClassifyPathError("directory", path, err)
	}
	return nil
}
