package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"isomagic/internal/services"
)

// Policy selects how malformed lines are treated.
type Policy int

const (
	// Permissive skips malformed lines and counts them.
	Permissive Policy = iota
	// Strict fails on the first malformed line.
	Strict
)

// DefaultExcludedPrefixes mark the Korean regional variant of the catalog.
var DefaultExcludedPrefixes = []string{"SLKA", "SCKA"}

// Options configures parsing.
type Options struct {
	// ExcludedPrefixes drops entries whose code starts with any value. Nil
	// means DefaultExcludedPrefixes; an empty non-nil slice excludes nothing.
	ExcludedPrefixes []string
	Policy           Policy
}

func (o Options) prefixes() []string {
	if o.ExcludedPrefixes == nil {
		return DefaultExcludedPrefixes
	}
	return o.ExcludedPrefixes
}

// LineError reports a malformed line under the Strict policy.
type LineError struct {
	Line int
	Text string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("catalog line %d: expected \"<code> <name>\", got %q", e.Line, e.Text)
}

func (e *LineError) Unwrap() error { return services.ErrValidation }

const maxLineBytes = 1 << 20

// Parse reads catalog lines from r. A leading UTF-8 byte order mark is ignored.
func Parse(r io.Reader, opts Options) (*Catalog, error) {
	prefixes := opts.prefixes()
	c := New()

	scanner := bufio.NewScanner(newDecoder(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		c.stats.Lines++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			c.stats.Blank++
			continue
		}
		code, name, ok := strings.Cut(line, " ")
		if !ok {
			if opts.Policy == Strict {
				return nil, &LineError{Line: c.stats.Lines, Text: raw}
			}
			c.stats.Malformed++
			continue
		}
		if HasExcludedPrefix(code, prefixes) {
			c.stats.Excluded++
			continue
		}
		if c.add(Entry{Name: name, Code: code}) {
			c.stats.Duplicates++
		}
		c.stats.Accepted++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return c, nil
}

// Load opens and parses the catalog file at path. A missing file yields a
// *services.NotFoundError and an unreadable one a *services.PermissionError.
func Load(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.ClassifyPathError("catalog", path, err)
	}
	defer f.Close()

	c, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w", path, err)
	}
	return c, nil
}

// ReadLines returns the non-blank lines of the catalog file without
// interpreting them. Line terminators are removed; other whitespace is kept.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.ClassifyPathError("catalog", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(newDecoder(f))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	return lines, nil
}

func newDecoder(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
