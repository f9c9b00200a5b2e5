package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"isomagic/internal/journal"
	"isomagic/internal/services"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs, or the actions of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireJournal()
			if err != nil {
				return err
			}
			if strings.TrimSpace(runID) != "" {
				return showRun(cmd, store, strings.TrimSpace(runID))
			}
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", services.ErrValidation)
			}
			runs, err := store.ListRuns(commandRunContext(cmd), limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the actions of the run with this ID or unique ID prefix")
	return cmd
}

func printRuns(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			string(r.Kind),
			r.StartedAt.Local().Format(historyTimeLayout),
			yesNo(r.DryRun),
			strconv.Itoa(r.Scanned),
			strconv.Itoa(r.Changed),
			strconv.Itoa(r.Failed),
			runOutcome(r),
			r.Directory,
		})
	}
	newPrinter(w).table([]column{
		{header: "Run"},
		{header: "Kind"},
		{header: "Started"},
		{header: "Dry run"},
		{header: "Scanned", right: true},
		{header: "Changed", right: true},
		{header: "Failed", right: true},
		{header: "Outcome"},
		{header: "Directory"},
	}, rows)
}

func showRun(cmd *cobra.Command, store *journal.Store, id string) error {
	runCtx := commandRunContext(cmd)
	run, err := store.GetRun(runCtx, id)
	if err != nil {
		if errors.Is(err, journal.ErrRunNotFound) {
			return fmt.Errorf("%w: run %q", services.ErrNotFound, id)
		}
		return err
	}
	actions, err := store.Actions(runCtx, run.ID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	out := newPrinter(w)
	out.section("Run " + run.ID)
	out.status("Kind", kindInfo, string(run.Kind))
	out.status("Directory", kindInfo, run.Directory)
	out.status("Started", kindInfo, run.StartedAt.Local().Format(historyTimeLayout))
	if run.Finished() {
		out.status("Duration", kindInfo, run.Duration().Round(time.Millisecond).String())
	}
	out.status("Dry run", kindInfo, yesNo(run.DryRun))
	out.status("Counts", kindInfo, fmt.Sprintf("scanned %d, changed %d, failed %d", run.Scanned, run.Changed, run.Failed))
	outcome := kindOK
	switch {
	case run.Error != "":
		outcome = kindError
	case !run.Finished():
		outcome = kindWarn
	}
	out.status("Outcome", outcome, runOutcome(*run))

	if len(actions) == 0 {
		fmt.Fprintln(w, "No actions recorded")
		return nil
	}
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		score := ""
		if a.Score > 0 {
			score = strconv.FormatFloat(a.Score, 'f', 3, 64)
		}
		rows = append(rows, []string{a.Status, a.Source, a.Target, a.Code, score, a.Error})
	}
	out.table([]column{
		{header: "Status", status: true},
		{header: "Source"},
		{header: "Target"},
		{header: "Code"},
		{header: "Score", right: true},
		{header: "Error"},
	}, rows)
	return nil
}

func runOutcome(r journal.Run) string {
	switch {
	case r.Error != "":
		return "failed: " + r.Error
	case !r.Finished():
		return "incomplete"
	default:
		return "ok"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
