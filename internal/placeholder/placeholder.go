package placeholder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"isomagic/internal/journal"
	"isomagic/internal/logging"
	"isomagic/internal/services"
	"isomagic/internal/textutil"
)

const (
	// DefaultCount is used when the operator leaves the count blank or enters an invalid one.
	DefaultCount = 100
	// DefaultExtension is appended to every placeholder name.
	DefaultExtension = ".iso"
)

// ErrInvalidCount reports count input that was replaced by the fallback.
var ErrInvalidCount = errors.New("invalid placeholder count")

// ActionRecorder persists file actions, typically a *journal.Store.
type ActionRecorder interface {
	RecordAction(ctx context.Context, action journal.Action) error
}

// Options configures Generate.
type Options struct {
	// Extension defaults to DefaultExtension.
	Extension string
	// Rand drives sampling; nil uses a randomly seeded source.
	Rand   *rand.Rand
	Logger *slog.Logger
	// OnCreate is called after each attempt with the file name and any error.
	OnCreate func(name string, err error)
	Journal  ActionRecorder
	RunID    string
}

// Result summarizes a generation run.
type Result struct {
	Directory string               `json:"directory"`
	Requested int                  `json:"requested"`
	Sampled   int                  `json:"sampled"`
	Created   int                  `json:"created"`
	Files     []string             `json:"files"`
	Failures  []services.ItemError `json:"-"`
}

// ParseCount interprets operator input for the number of files. Blank input
// yields fallback. Input that is not a positive integer also yields fallback,
// together with an error wrapping ErrInvalidCount so the caller can say so.
func ParseCount(input string, fallback int) (int, error) {
	if fallback <= 0 {
		fallback = DefaultCount
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("%w %q, using %d", ErrInvalidCount, trimmed, fallback)
	}
	return n, nil
}

// DisplayName derives the file stem for a raw catalog line: everything after
// the first space, or the whole line when there is none, trimmed and with
// unsafe characters replaced.
func DisplayName(line string) string {
	name := line
	if _, rest, ok := strings.Cut(line, " "); ok {
		name = rest
	}
	return textutil.SanitizeFileName(strings.TrimSpace(name))
}

// Sample returns min(n, len(lines)) distinct lines chosen at random.
func Sample(r *rand.Rand, lines []string, n int) []string {
	if n <= 0 || len(lines) == 0 {
		return nil
	}
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	k := min(n, len(lines))
	picked := make([]string, 0, k)
	for _, idx := range r.Perm(len(lines))[:k] {
		picked = append(picked, lines[idx])
	}
	return picked
}

// Generate samples up to n catalog lines and creates an empty file for each in
// dir, creating dir first. A file that cannot be created is recorded as a
// failure and the rest are still attempted. Existing files are truncated.
func Generate(ctx context.Context, lines []string, dir string, n int, opts Options) (Result, error) {
	result := Result{Directory: dir, Requested: n}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "placeholder"))
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, services.ClassifyPathError("directory", dir, err)
	}

	picked := Sample(opts.Rand, lines, n)
	result.Sampled = len(picked)
	logger.Info("creating placeholders",
		logging.Directory(dir),
		logging.Int("requested", n),
		logging.Int("sampled", len(picked)),
	)

	journalBroken := false
	for i, line := range picked {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("placeholders cancelled after %d of %d files: %w", i, len(picked), err)
		}
		name := DisplayName(line) + ext
		err := createEmpty(filepath.Join(dir, name))
		action := journal.Action{Status: "created", Target: name}
		if err != nil {
			result.Failures = append(result.Failures, services.ItemError{Name: name, Err: err})
			action.Status = "failed"
			action.Error = err.Error()
			logging.WarnWithContext(logger, "create placeholder failed", "placeholder_create_failed",
				logging.File(name),
				logging.Error(err),
				logging.Hint("check the name is valid on this filesystem"),
			)
		} else {
			result.Created++
			result.Files = append(result.Files, name)
			logger.Debug("created placeholder", logging.File(name))
		}
		if opts.OnCreate != nil {
			opts.OnCreate(name, err)
		}
		if opts.Journal != nil && opts.RunID != "" && !journalBroken {
			action.RunID = opts.RunID
			if jerr := opts.Journal.RecordAction(context.WithoutCancel(ctx), action); jerr != nil {
				journalBroken = true
				logging.WarnWithContext(logger, "journal write failed; continuing without journal", "journal_write_failed",
					logging.Error(jerr),
					logging.Hint("check the state directory is writable"),
				)
			}
		}
	}

	logger.Info("placeholders created",
		logging.Int("created", result.Created),
		logging.Int("failed", len(result.Failures)),
	)
	return result, nil
}

func createEmpty(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
