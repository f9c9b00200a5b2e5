package renamer

import (
	"context"
	"log/slog"

	"isomagic/internal/journal"
	"isomagic/internal/logging"
)

// actionSink forwards actions to the journal. The first write failure is
// logged and disables further writes for the pass.
type actionSink struct {
	recorder ActionRecorder
	runID    string
	logger   *slog.Logger
	broken   bool
}

func newActionSink(opts Options, logger *slog.Logger) *actionSink {
	return &actionSink{recorder: opts.Journal, runID: opts.RunID, logger: logger}
}

func (s *actionSink) record(ctx context.Context, action journal.Action) {
	if s == nil || s.recorder == nil || s.runID == "" || s.broken {
		return
	}
	action.RunID = s.runID
	if err := s.recorder.RecordAction(context.WithoutCancel(ctx), action); err != nil {
		s.broken = true
		logging.WarnWithContext(s.logger, "journal write failed; continuing without journal", "journal_write_failed",
			logging.Error(err),
			logging.Hint("check the state directory is writable"),
		)
	}
}

func renameJournalAction(a RenameAction) journal.Action {
	return journal.Action{
		Status: string(a.Status),
		Source: a.Source,
		Target: a.Target,
		Code:   a.Code,
		Score:  a.Score,
	}
}

func pruneJournalAction(a PruneAction) journal.Action {
	return journal.Action{
		Status: string(a.Status),
		Source: a.Name,
		Error:  a.Error,
	}
}
