package renamer

import (
	"context"
	"log/slog"

	"isomagic/internal/journal"
	"isomagic/internal/matching"
	"isomagic/internal/services"
)

// Status describes what a pass did with one file.
type Status string

const (
	StatusRenamed       Status = "renamed"
	StatusPlanned       Status = "planned"
	StatusUnmatched     Status = "unmatched"
	StatusAlreadyTagged Status = "already_tagged"
	StatusConflict      Status = "conflict"
	StatusRemoved       Status = "removed"
	StatusKept          Status = "kept"
	StatusFailed        Status = "failed"
)

// Matcher selects the catalog entry for a base name.
type Matcher interface {
	Best(baseName string) (matching.Candidate, bool)
}

// ActionRecorder persists file actions, typically a *journal.Store.
type ActionRecorder interface {
	RecordAction(ctx context.Context, action journal.Action) error
}

// Progress is reported after each file.
type Progress struct {
	Done   int
	Total  int
	Name   string
	Status Status
	// Changed is the running count of renamed or removed files.
	Changed int
}

// ProgressFunc receives progress updates.
type ProgressFunc func(Progress)

// Options configures a pass.
type Options struct {
	// DryRun decides every file without touching the filesystem.
	DryRun bool
	// SkipTagged leaves files that already start with their match's code.
	SkipTagged bool
	Progress   ProgressFunc
	Logger     *slog.Logger
	// Journal and RunID enable per-action recording.
	Journal ActionRecorder
	RunID   string
}

// RenameAction records the decision for one file.
type RenameAction struct {
	Source      string  `json:"source"`
	Target      string  `json:"target,omitempty"`
	Code        string  `json:"code,omitempty"`
	CatalogName string  `json:"catalog_name,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Status      Status  `json:"status"`
}

// RenameResult summarizes a rename pass. Renamed counts files actually
// renamed; Planned counts files a dry run would rename.
type RenameResult struct {
	Directory string         `json:"directory"`
	Scanned   int            `json:"scanned"`
	Renamed   int            `json:"renamed"`
	Planned   int            `json:"planned"`
	Unmatched int            `json:"unmatched"`
	Skipped   int            `json:"skipped"`
	Actions   []RenameAction `json:"actions"`
}

// PruneAction records the decision for one file.
type PruneAction struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// PruneResult summarizes a prune pass.
type PruneResult struct {
	Directory string               `json:"directory"`
	Scanned   int                  `json:"scanned"`
	Removed   int                  `json:"removed"`
	Planned   int                  `json:"planned"`
	Failed    int                  `json:"failed"`
	Failures  []services.ItemError `json:"-"`
	Actions   []PruneAction        `json:"actions"`
}
