package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"isomagic/internal/config"
	"isomagic/internal/journal"
	"isomagic/internal/logging"
	"isomagic/internal/matching"
	"isomagic/internal/preflight"
	"isomagic/internal/renamer"
	"isomagic/internal/services"
)

type renameRequest struct {
	dir         string
	catalogPath string
	threshold   float64
	dryRun      bool
	prune       bool
	jsonOutput  bool
}

type passOutput struct {
	Rename *renamer.RenameResult `json:"rename,omitempty"`
	Prune  *renamer.PruneResult  `json:"prune,omitempty"`
	RunIDs []string              `json:"run_ids,omitempty"`
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var req renameRequest

	cmd := &cobra.Command{
		Use:   "rename <dir>",
		Short: "Prefix image files with the code of their best catalog match",
		Long: `Scan the files directly inside <dir>, match each base name against the
catalog, and rename matches to "<CODE> <original name>". Files with no catalog
title scoring above the threshold are left untouched.

Names are Unicode NFC-normalized before lowercasing, so an accented name
written with combining marks scores the same as its precomposed form. Scores
for such names can differ from tools that only lowercase.

A file whose new name already exists is skipped and reported as a conflict;
existing files are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.dir = args[0]
			threshold, err := resolveThreshold(cmd, ctx.configValue(), req.threshold)
			if err != nil {
				return err
			}
			req.threshold = threshold
			return runRenameCommand(cmd, ctx, req)
		},
	}

	cmd.Flags().StringVar(&req.catalogPath, "catalog", "", "Catalog file (defaults to paths.catalog)")
	cmd.Flags().Float64Var(&req.threshold, "threshold", matching.DefaultThreshold, "Similarity a match must exceed (0-1)")
	cmd.Flags().BoolVarP(&req.dryRun, "dry-run", "n", false, "Show planned renames without changing files")
	cmd.Flags().BoolVar(&req.prune, "prune", false, "Remove excluded-region files after renaming")
	cmd.Flags().BoolVar(&req.jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var prefixes []string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "prune <dir>",
		Short: "Remove files whose names start with an excluded region prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args[0], dryRun)
			if err != nil {
				return err
			}
			if len(prefixes) == 0 {
				prefixes = ctx.configValue().Matching.ExcludedPrefixes
			} else {
				prefixes = config.NormalizePrefixes(prefixes)
			}
			var out passOutput
			err = ctx.withLock(func() error {
				result, runID, err := runPrunePass(cmd, ctx, dir, prefixes, dryRun, jsonOutput)
				out.Prune = &result
				out.RunIDs = appendRunID(out.RunIDs, runID)
				return err
			})
			if jsonOutput && out.Prune != nil {
				if jerr := printJSON(cmd.OutOrStdout(), out); jerr != nil {
					return jerr
				}
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&prefixes, "prefix", nil, "Prefix to remove (repeatable; defaults to matching.excluded_prefixes)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show files that would be removed without deleting them")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

// resolveThreshold returns --threshold when it was given and the configured
// threshold otherwise.
func resolveThreshold(cmd *cobra.Command, cfg *config.Config, flagValue float64) (float64, error) {
	if !cmd.Flags().Changed("threshold") {
		return cfg.Matching.Threshold, nil
	}
	if err := config.ValidateThreshold(flagValue); err != nil {
		return 0, fmt.Errorf("%w: --threshold %w", services.ErrValidation, err)
	}
	return flagValue, nil
}

// resolveDir expands the target directory and, for passes that modify it,
// checks access up front so failures surface before any file is touched.
func resolveDir(raw string, readOnly bool) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: directory is required", services.ErrValidation)
	}
	dir, err := config.ExpandPath(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if readOnly {
		return dir, nil
	}
	if err := preflight.DirectoryError(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func runRenameCommand(cmd *cobra.Command, ctx *commandContext, req renameRequest) error {
	dir, err := resolveDir(req.dir, req.dryRun)
	if err != nil {
		return err
	}
	prefixes := ctx.configValue().Matching.ExcludedPrefixes

	var out passOutput
	err = ctx.withLock(func() error {
		result, runID, err := runRenamePass(cmd, ctx, dir, req)
		out.Rename = &result
		out.RunIDs = appendRunID(out.RunIDs, runID)
		if err != nil || !req.prune {
			return err
		}
		pruned, pruneRunID, err := runPrunePass(cmd, ctx, dir, prefixes, req.dryRun, req.jsonOutput)
		out.Prune = &pruned
		out.RunIDs = appendRunID(out.RunIDs, pruneRunID)
		return err
	})
	if req.jsonOutput && out.Rename != nil {
		if jerr := printJSON(cmd.OutOrStdout(), out); jerr != nil {
			return jerr
		}
	}
	return err
}

func appendRunID(ids []string, id string) []string {
	if id == "" {
		return ids
	}
	return append(ids, id)
}

// runRenamePass loads the catalog and renames matches in dir. Human output is
// written unless req.jsonOutput is set. The caller holds the run lock.
func runRenamePass(cmd *cobra.Command, ctx *commandContext, dir string, req renameRequest) (renamer.RenameResult, string, error) {
	cfg := ctx.configValue()
	logger := ctx.loggerValue()

	cat, err := ctx.loadCatalog(req.catalogPath)
	if err != nil {
		return renamer.RenameResult{Directory: dir}, "", err
	}
	matcher, err := matching.New(cat, matching.Options{Threshold: req.threshold})
	if err != nil {
		return renamer.RenameResult{Directory: dir}, "", fmt.Errorf("%w: %w", services.ErrValidation, err)
	}

	session := ctx.beginRun(commandRunContext(cmd), journal.KindRename, dir, req.dryRun)
	progress := newPassProgress(cmd.ErrOrStderr(), !ctx.quietEnabled() && !req.jsonOutput, "Renaming files", "renamed")
	result, err := renamer.Rename(session.ctx, dir, matcher, renamer.Options{
		DryRun:     req.dryRun,
		SkipTagged: cfg.Matching.SkipTagged,
		Progress:   progress.update,
		Logger:     logger,
		Journal:    session.recorder(),
		RunID:      session.runID(),
	})
	progress.finish()
	session.finish(logger, journal.Summary{
		Scanned: result.Scanned,
		Changed: result.Renamed + result.Planned,
	}, err)

	if !req.jsonOutput {
		printRenameResult(cmd.OutOrStdout(), result, req.dryRun, err != nil)
	}
	return result, session.runID(), err
}

// runPrunePass removes excluded-region files from dir. The caller holds the run lock.
func runPrunePass(cmd *cobra.Command, ctx *commandContext, dir string, prefixes []string, dryRun, jsonOutput bool) (renamer.PruneResult, string, error) {
	logger := ctx.loggerValue()

	session := ctx.beginRun(commandRunContext(cmd), journal.KindPrune, dir, dryRun)
	progress := newPassProgress(cmd.ErrOrStderr(), !ctx.quietEnabled() && !jsonOutput, "Removing excluded titles", "removed")
	result, err := renamer.Prune(session.ctx, dir, prefixes, renamer.Options{
		DryRun:   dryRun,
		Progress: progress.update,
		Logger:   logger,
		Journal:  session.recorder(),
		RunID:    session.runID(),
	})
	progress.finish()
	session.finish(logger, journal.Summary{
		Scanned: result.Scanned,
		Changed: result.Removed + result.Planned,
		Failed:  result.Failed,
	}, err)

	if !jsonOutput {
		printPruneResult(cmd.OutOrStdout(), result, prefixes, dryRun)
	}
	return result, session.runID(), err
}

func commandRunContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printRenameResult(w io.Writer, result renamer.RenameResult, dryRun, aborted bool) {
	out := newPrinter(w)

	var rows [][]string
	for _, a := range result.Actions {
		if a.Status == renamer.StatusUnmatched {
			continue
		}
		rows = append(rows, []string{
			string(a.Status),
			a.Source,
			a.Target,
			a.Code,
			strconv.FormatFloat(a.Score, 'f', 3, 64),
		})
	}
	if len(rows) > 0 {
		out.table([]column{
			{header: "Status", status: true},
			{header: "File"},
			{header: "New name"},
			{header: "Code"},
			{header: "Score", right: true},
		}, rows)
	}

	if dryRun {
		out.count("Would rename", result.Planned, "")
	} else {
		out.count("Renamed", result.Renamed, "")
	}
	out.status("Unmatched", kindInfo, strconv.Itoa(result.Unmatched))
	if result.Skipped > 0 {
		out.status("Skipped", kindWarn, strconv.Itoa(result.Skipped))
	}
	if aborted {
		out.status("Pass", kindError, fmt.Sprintf("stopped after %d files", result.Scanned))
	}
	fmt.Fprintf(w, "Total files renamed: %d\n", result.Renamed)
}

func printPruneResult(w io.Writer, result renamer.PruneResult, prefixes []string, dryRun bool) {
	out := newPrinter(w)

	for _, a := range result.Actions {
		switch a.Status {
		case renamer.StatusPlanned:
			fmt.Fprintf(w, "Would remove: %s\n", a.Name)
		case renamer.StatusFailed:
			fmt.Fprintf(w, "Error removing %s: %s\n", a.Name, a.Error)
		}
	}
	label := "Removed"
	count := result.Removed
	if dryRun {
		label = "Would remove"
		count = result.Planned
	}
	out.count(label, count, fmt.Sprintf("(prefixes %s)", strings.Join(prefixes, ", ")))
	if result.Failed > 0 {
		out.status("Failed", kindError, strconv.Itoa(result.Failed))
	}
	fmt.Fprintf(w, "Total excluded titles removed: %d\n", result.Removed)
}

// describeFailure renders an error for the interactive menu.
func describeFailure(err error) string {
	var nf *services.NotFoundError
	var pe *services.PermissionError
	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("Error: The %s '%s' was not found. Please check the path and try again.", kindOr(nf.Kind), nf.Path)
	case errors.As(err, &pe):
		return fmt.Sprintf("Error: You don't have permission to access the %s '%s'. Please check your permissions and try again.", kindOr(pe.Kind), pe.Path)
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

func kindOr(kind string) string {
	if kind == "" {
		return "path"
	}
	return kind
}

// logPassError records a pass failure with the operator hint.
func logPassError(ctx *commandContext, operation string, err error) {
	ctx.loggerValue().Error("pass failed",
		logging.String(logging.FieldOperation, operation),
		logging.Error(err),
		logging.EventType("pass_failed"),
		logging.Hint(services.Hint(err)),
	)
}
