package journal

import "time"

// Kind identifies the pass a run performed.
type Kind string

const (
	KindRename       Kind = "rename"
	KindPrune        Kind = "prune"
	KindPlaceholders Kind = "placeholders"
)

// Run is one invocation of a pass.
type Run struct {
	ID         string
	Kind       Kind
	Directory  string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Changed    int
	Failed     int
	Error      string
}

// Finished reports whether FinishRun has been recorded for the run.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Duration returns the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary holds the counts written when a run finishes. Changed is renamed,
// removed, or created files depending on the run kind.
type Summary struct {
	Scanned int
	Changed int
	Failed  int
}

// Action is one file decision within a run.
type Action struct {
	ID        int64
	RunID     string
	Status    string
	Source    string
	Target    string
	Code      string
	Score     float64
	Error     string
	CreatedAt time.Time
}
