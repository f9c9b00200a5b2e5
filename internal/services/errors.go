package services

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrPermission    = errors.New("permission denied")
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, subject, message string, err error) error {
	detail := buildDetail(operation, subject, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// NotFoundError reports a missing catalog or target directory. It aborts the
// current operation.
type NotFoundError struct {
	Kind string // "directory" or "catalog"
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q was not found", kindLabel(e.Kind), e.Path)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

// PermissionError reports that the process lacks rights to list, read, or
// modify a path. It aborts the current operation.
type PermissionError struct {
	Kind string
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no permission to access %s %q", kindLabel(e.Kind), e.Path)
}

func (e *PermissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPermission}
	}
	return []error{ErrPermission, e.Err}
}

// ClassifyPathError converts filesystem errors into NotFoundError or
// PermissionError. Other errors are returned wrapped with the path.
func ClassifyPathError(kind, path string, err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	var pe *PermissionError
	if errors.As(err, &nf) || errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Kind: kind, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &PermissionError{Kind: kind, Path: path, Err: err}
	default:
		return fmt.Errorf("%s %q: %w", kindLabel(kind), path, err)
	}
}

// ItemError records a per-item failure that did not abort the surrounding loop.
type ItemError struct {
	Name string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// Hint returns a short operator-facing suggestion for the error class.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "check the path and try again"
	case errors.Is(err, ErrPermission):
		return "check your permissions and try again"
	case errors.Is(err, ErrConfiguration):
		return "fix the configuration (see 'isomagic config validate')"
	default:
		return ""
	}
}

func kindLabel(kind string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return "path"
	}
	return kind
}

func buildDetail(operation, subject, message string) string {
	parts := make([]string, 0, 3)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, subject)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failure"
	}
	return strings.Join(parts, ": ")
}
