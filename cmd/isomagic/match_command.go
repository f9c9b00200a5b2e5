package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"isomagic/internal/matching"
	"isomagic/internal/renamer"
	"isomagic/internal/services"
	"isomagic/internal/textutil"
)

type matchRow struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Distance int     `json:"distance"`
	Accepted bool    `json:"accepted"`
}

type matchOutput struct {
	Query     string     `json:"query"`
	BaseName  string     `json:"base_name"`
	Threshold float64    `json:"threshold"`
	Best      *matchRow  `json:"best,omitempty"`
	Target    string     `json:"target,omitempty"`
	Ranked    []matchRow `json:"ranked"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var catalogPath string
	var limit int
	var threshold float64
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match <filename>",
		Short: "Show how a filename scores against the catalog",
		Long: `Score a filename against every catalog title the way the rename pass does
and list the closest titles. Nothing on disk is changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("%w: --limit must be positive", services.ErrValidation)
			}
			threshold, err := resolveThreshold(cmd, ctx.configValue(), threshold)
			if err != nil {
				return err
			}
			cat, err := ctx.loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			matcher, err := matching.New(cat, matching.Options{Threshold: threshold})
			if err != nil {
				return fmt.Errorf("%w: %w", services.ErrValidation, err)
			}

			out := buildMatchOutput(matcher, args[0], limit)
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printMatchOutput(cmd, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (defaults to paths.catalog)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "Number of ranked titles to show")
	cmd.Flags().Float64Var(&threshold, "threshold", matching.DefaultThreshold, "Similarity a match must exceed (0-1)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

func buildMatchOutput(matcher *matching.Matcher, query string, limit int) matchOutput {
	base := renamer.BaseName(query)
	key := textutil.MatchKey(base)
	out := matchOutput{
		Query:     query,
		BaseName:  base,
		Threshold: matcher.Threshold(),
		Ranked:    []matchRow{},
	}
	for _, c := range matcher.Rank(base, limit) {
		out.Ranked = append(out.Ranked, matchRow{
			Code:     c.Entry.Code,
			Name:     c.Entry.Name,
			Score:    c.Score,
			Distance: textutil.EditDistance(key, textutil.MatchKey(c.Entry.Name)),
			Accepted: matcher.Accepts(c.Score),
		})
	}
	if best, ok := matcher.Best(base); ok {
		out.Best = &matchRow{
			Code:     best.Entry.Code,
			Name:     best.Entry.Name,
			Score:    best.Score,
			Distance: textutil.EditDistance(key, textutil.MatchKey(best.Entry.Name)),
			Accepted: true,
		}
		out.Target = renamer.TargetName(best.Entry.Code, query)
	}
	return out
}

func printMatchOutput(cmd *cobra.Command, out matchOutput) {
	p := newPrinter(cmd.OutOrStdout())

	if len(out.Ranked) > 0 {
		rows := make([][]string, 0, len(out.Ranked))
		for i, r := range out.Ranked {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				r.Code,
				r.Name,
				strconv.FormatFloat(r.Score, 'f', 3, 64),
				strconv.Itoa(r.Distance),
				yesNo(r.Accepted),
			})
		}
		p.table([]column{
			{header: "#", right: true},
			{header: "Code"},
			{header: "Title"},
			{header: "Score", right: true},
			{header: "Edits", right: true},
			{header: "Match"},
		}, rows)
	}

	threshold := strconv.FormatFloat(out.Threshold, 'f', 3, 64)
	if out.Best == nil {
		p.status("Best match", kindWarn, "no title scores above "+threshold)
		return
	}
	p.status("Best match", kindOK, fmt.Sprintf("%s %s (%.3f > %s)", out.Best.Code, out.Best.Name, out.Best.Score, threshold))
	p.status("Would rename to", kindInfo, out.Target)
}
