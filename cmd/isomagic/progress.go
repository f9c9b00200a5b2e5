package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"isomagic/internal/renamer"
)

// passProgress drives a terminal progress bar from pass updates. A nil bar
// makes every method a no-op, which is the case off a terminal or with
// --quiet/--json.
type passProgress struct {
	bar         *progressbar.ProgressBar
	description string
	countLabel  string
}

func newPassProgress(w io.Writer, enabled bool, description, countLabel string) *passProgress {
	p := &passProgress{description: description, countLabel: countLabel}
	if !enabled || !shouldColorize(w) {
		return p
	}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return p
}

func (p *passProgress) update(u renamer.Progress) {
	if p == nil || p.bar == nil {
		return
	}
	if p.bar.GetMax() != u.Total {
		p.bar.ChangeMax(u.Total)
	}
	p.bar.Describe(fmt.Sprintf("%s [%s=%d]", p.description, p.countLabel, u.Changed))
	_ = p.bar.Set(u.Done)
}

func (p *passProgress) finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}
