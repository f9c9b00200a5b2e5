package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"isomagic/internal/catalog"
	"isomagic/internal/config"
	"isomagic/internal/journal"
	"isomagic/internal/placeholder"
	"isomagic/internal/services"
)

type placeholderRequest struct {
	count       int
	dir         string
	catalogPath string
	seed        uint64
	seeded      bool
	jsonOutput  bool
}

func newPlaceholdersCommand(ctx *commandContext) *cobra.Command {
	var req placeholderRequest

	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "Create empty image files named after random catalog titles",
		Long: `Sample catalog lines without replacement and create an empty file for each,
named after the sanitized display name. Requesting more files than the catalog
has lines creates one file per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cmd.Flags().Changed("count") {
				req.count = cfg.Placeholders.Count
			} else if req.count <= 0 {
				return fmt.Errorf("%w: --count must be positive, got %d", services.ErrValidation, req.count)
			}
			if strings.TrimSpace(req.dir) == "" {
				req.dir = cfg.Placeholders.Directory
			}
			req.seeded = cmd.Flags().Changed("seed")
			return ctx.withLock(func() error {
				result, err := runPlaceholders(cmd, ctx, req, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if req.jsonOutput {
					return printJSON(cmd.OutOrStdout(), result)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&req.count, "count", "n", placeholder.DefaultCount, "Number of files to create (defaults to placeholders.count)")
	cmd.Flags().StringVar(&req.dir, "dir", "", "Output directory (defaults to placeholders.directory)")
	cmd.Flags().StringVar(&req.catalogPath, "catalog", "", "Catalog file (defaults to paths.catalog)")
	cmd.Flags().Uint64Var(&req.seed, "seed", 0, "Seed for reproducible sampling")
	cmd.Flags().BoolVar(&req.jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

// runPlaceholders creates placeholder files and prints per-file lines to w
// unless JSON output was requested. The caller holds the run lock.
func runPlaceholders(cmd *cobra.Command, ctx *commandContext, req placeholderRequest, w io.Writer) (placeholder.Result, error) {
	cfg := ctx.configValue()
	logger := ctx.loggerValue()

	catalogPath := cfg.Paths.Catalog
	if strings.TrimSpace(req.catalogPath) != "" {
		expanded, err := config.ExpandPath(req.catalogPath)
		if err != nil {
			return placeholder.Result{}, err
		}
		catalogPath = expanded
	}
	dir, err := config.ExpandPath(req.dir)
	if err != nil {
		return placeholder.Result{}, err
	}

	lines, err := catalog.ReadLines(catalogPath)
	if err != nil {
		return placeholder.Result{Directory: dir, Requested: req.count}, err
	}

	opts := placeholder.Options{
		Extension: cfg.Placeholders.Extension,
		Logger:    logger,
	}
	if req.seeded {
		opts.Rand = rand.New(rand.NewPCG(req.seed, req.seed))
	}
	if !req.jsonOutput {
		opts.OnCreate = func(name string, err error) {
			if err != nil {
				fmt.Fprintf(w, "Error creating %s: %v\n", name, err)
				return
			}
			fmt.Fprintf(w, "Created: %s\n", name)
		}
	}

	session := ctx.beginRun(commandRunContext(cmd), journal.KindPlaceholders, dir, false)
	opts.Journal = session.recorder()
	opts.RunID = session.runID()

	result, err := placeholder.Generate(session.ctx, lines, dir, req.count, opts)
	session.finish(logger, journal.Summary{
		Scanned: result.Sampled,
		Changed: result.Created,
		Failed:  len(result.Failures),
	}, err)
	if err != nil {
		return result, err
	}

	if !req.jsonOutput {
		fmt.Fprintf(w, "Created %d random %s files in %s\n", result.Created, displayExtension(opts.Extension), dir)
		if failed := len(result.Failures); failed > 0 {
			newPrinter(w).status("Failed", kindWarn, fmt.Sprintf("%d of %d files", failed, result.Sampled))
		}
	}
	return result, nil
}

func displayExtension(ext string) string {
	if ext == "" {
		return placeholder.DefaultExtension
	}
	return ext
}
