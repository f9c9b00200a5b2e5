package renamer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"isomagic/internal/catalog"
	"isomagic/internal/logging"
	"isomagic/internal/services"
)

// prefixWidth is how many leading characters of a filename are compared
// against the excluded prefixes.
const prefixWidth = 4

// HasPrunePrefix reports whether the first four characters of name equal one
// of prefixes. Names shorter than four characters are compared whole.
func HasPrunePrefix(name string, prefixes []string) bool {
	return slices.Contains(prefixes, leadingRunes(name, prefixWidth))
}

func leadingRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Prune removes every plain file in dir whose name starts with one of the
// excluded prefixes; nil prefixes mean catalog.DefaultExcludedPrefixes. The
// catalog is not consulted. A file that cannot be removed is recorded as a
// failure and the pass continues.
func Prune(ctx context.Context, dir string, prefixes []string, opts Options) (PruneResult, error) {
	if prefixes == nil {
		prefixes = catalog.DefaultExcludedPrefixes
	}
	result := PruneResult{Directory: dir}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "pruner"))
	recorder := newActionSink(opts, logger)

	names, err := listFiles(dir)
	if err != nil {
		return result, err
	}
	result.Actions = make([]PruneAction, 0, len(names))
	logger.Info("prune pass started",
		logging.Directory(dir),
		logging.Int("files", len(names)),
		logging.String("prefixes", strings.Join(prefixes, ",")),
		logging.Bool("dry_run", opts.DryRun),
	)

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("prune cancelled after %d of %d files: %w", i, len(names), err)
		}
		result.Scanned++

		action := PruneAction{Name: name, Status: StatusKept}
		if HasPrunePrefix(name, prefixes) {
			switch {
			case opts.DryRun:
				action.Status = StatusPlanned
				result.Planned++
			default:
				if err := os.Remove(filepath.Join(dir, name)); err != nil {
					action.Status = StatusFailed
					action.Error = err.Error()
					result.Failed++
					result.Failures = append(result.Failures, services.ItemError{Name: name, Err: err})
					logging.WarnWithContext(logger, "remove failed", "prune_remove_failed",
						logging.File(name),
						logging.Error(err),
						logging.Hint(services.Hint(services.ClassifyPathError("file", name, err))),
					)
				} else {
					action.Status = StatusRemoved
					result.Removed++
					logger.Info("removed file", logging.File(name))
				}
			}
			recorder.record(ctx, pruneJournalAction(action))
		}
		result.Actions = append(result.Actions, action)

		if opts.Progress != nil {
			opts.Progress(Progress{
				Done:    i + 1,
				Total:   len(names),
				Name:    name,
				Status:  action.Status,
				Changed: result.Removed + result.Planned,
			})
		}
	}

	logger.Info("prune pass finished",
		logging.Int("scanned", result.Scanned),
		logging.Int("removed", result.Removed),
		logging.Int("planned", result.Planned),
		logging.Int("failed", result.Failed),
	)
	return result, nil
}
