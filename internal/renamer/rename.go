package renamer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"isomagic/internal/logging"
	"isomagic/internal/services"
)

// TargetName is the name a matched file is renamed to.
func TargetName(code, original string) string {
	return code + " " + original
}

// Rename tags every plain file in dir whose base name matches a catalog entry,
// renaming "<name>" to "<code> <name>" in place. Files without a match are
// left untouched. The pass stops at the first rename failure or when ctx is
// cancelled; files renamed before that keep their new names.
func Rename(ctx context.Context, dir string, matcher Matcher, opts Options) (RenameResult, error) {
	result := RenameResult{Directory: dir}
	if matcher == nil {
		return result, errors.New("rename: matcher is required")
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "renamer"))
	recorder := newActionSink(opts, logger)
	sampler := logging.NewProgressSampler(10)

	names, err := listFiles(dir)
	if err != nil {
		return result, err
	}
	result.Actions = make([]RenameAction, 0, len(names))
	logger.Info("rename pass started",
		logging.Directory(dir),
		logging.Int("files", len(names)),
		logging.Bool("dry_run", opts.DryRun),
	)

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("rename cancelled after %d of %d files: %w", i, len(names), err)
		}
		result.Scanned++

		action, err := renameOne(dir, name, matcher, opts)
		if err != nil {
			logger.Error("rename failed",
				logging.Source(name),
				logging.Target(action.Target),
				logging.Error(err),
				logging.EventType("rename_failed"),
				logging.Hint(services.Hint(err)),
			)
			return result, err
		}

		switch action.Status {
		case StatusRenamed:
			result.Renamed++
			logger.Info("renamed file",
				logging.Source(action.Source),
				logging.Target(action.Target),
				logging.Score(action.Score),
			)
		case StatusPlanned:
			result.Planned++
			logger.Debug("planned rename",
				logging.Source(action.Source),
				logging.Target(action.Target),
				logging.Score(action.Score),
			)
		case StatusUnmatched:
			result.Unmatched++
			logger.Debug("no catalog match", logging.Source(action.Source))
		case StatusAlreadyTagged, StatusConflict:
			result.Skipped++
			logger.Debug("skipped file",
				logging.Source(action.Source),
				logging.String("status", string(action.Status)),
			)
		}
		result.Actions = append(result.Actions, action)
		recorder.record(ctx, renameJournalAction(action))

		done := i + 1
		if sampler.ShouldLog(done, len(names)) {
			logger.Info("rename progress",
				logging.Int("done", done),
				logging.Int("total", len(names)),
				logging.Int("renamed", result.Renamed+result.Planned),
			)
		}
		if opts.Progress != nil {
			opts.Progress(Progress{
				Done:    done,
				Total:   len(names),
				Name:    name,
				Status:  action.Status,
				Changed: result.Renamed + result.Planned,
			})
		}
	}

	logger.Info("rename pass finished",
		logging.Int("scanned", result.Scanned),
		logging.Int("renamed", result.Renamed),
		logging.Int("planned", result.Planned),
		logging.Int("unmatched", result.Unmatched),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

func renameOne(dir, name string, matcher Matcher, opts Options) (RenameAction, error) {
	action := RenameAction{Source: name, Status: StatusUnmatched}

	candidate, ok := matcher.Best(BaseName(name))
	if !ok {
		return action, nil
	}
	action.Code = candidate.Entry.Code
	action.CatalogName = candidate.Entry.Name
	action.Score = candidate.Score
	action.Target = TargetName(candidate.Entry.Code, name)

	if opts.SkipTagged && strings.HasPrefix(name, candidate.Entry.Code+" ") {
		action.Status = StatusAlreadyTagged
		action.Target = ""
		return action, nil
	}

	targetPath := filepath.Join(dir, action.Target)
	if _, err := os.Lstat(targetPath); err == nil {
		action.Status = StatusConflict
		return action, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return action, services.ClassifyPathError("file", targetPath, err)
	}

	if opts.DryRun {
		action.Status = StatusPlanned
		return action, nil
	}
	if err := os.Rename(filepath.Join(dir, name), targetPath); err != nil {
		return action, services.ClassifyPathError("file", filepath.Join(dir, name), err)
	}
	action.Status = StatusRenamed
	return action, nil
}
