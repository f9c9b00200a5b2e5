package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"isomagic/internal/placeholder"
	"isomagic/internal/services"
)

// prompter reads operator answers one line at a time.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the trimmed answer. io.EOF is returned only
// when the input ends before any answer text.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(p.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu for renaming and placeholder creation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, ctx, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
}

func runMenu(cmd *cobra.Command, ctx *commandContext, p *prompter) error {
	out := p.out
	colorize := shouldColorize(out)
	for {
		printBanner(out, colorize)
		fmt.Fprintln(out, "ISO Renamer and Creator")
		fmt.Fprintln(out, "1. Rename ISO files")
		fmt.Fprintln(out, "2. Create placeholder ISO files from the catalog")
		fmt.Fprintln(out, "0. Exit")
		choice, err := p.ask("Enter your choice (0-2): ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := menuRename(cmd, ctx, p); err != nil {
				return err
			}
			fmt.Fprintln(out, "Renaming operation completed. Exiting the program.")
			return nil
		case "2":
			if err := menuPlaceholders(cmd, ctx, p); err != nil {
				return err
			}
		case "0":
			fmt.Fprintln(out, "Exiting the program. Goodbye!")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Please try again.")
		}
	}
}

// menuRename runs the rename pass and the optional prune pass. Missing or
// inaccessible directories and files are reported to the operator and end the
// operation normally; any other failure, including a missing catalog, is
// returned.
func menuRename(cmd *cobra.Command, ctx *commandContext, p *prompter) error {
	answer, err := p.ask("Enter the full path to your ISO directory: ")
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg := ctx.configValue()
	err = ctx.withLock(func() error {
		dir, err := resolveDir(answer, false)
		if err != nil {
			return err
		}
		req := renameRequest{dir: dir, threshold: cfg.Matching.Threshold}
		if _, _, err := runRenamePass(cmd, ctx, dir, req); err != nil {
			return err
		}

		remove, err := p.ask("Do you want to remove excluded-region titles? (y/n): ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if strings.ToLower(remove) != "y" {
			return nil
		}
		_, _, err = runPrunePass(cmd, ctx, dir, cfg.Matching.ExcludedPrefixes, false, false)
		return err
	})
	if err == nil {
		return nil
	}
	logPassError(ctx, "rename", err)
	if !isTargetPathError(err) {
		return err
	}
	fmt.Fprintln(p.out, describeFailure(err))
	return nil
}

func menuPlaceholders(cmd *cobra.Command, ctx *commandContext, p *prompter) error {
	cfg := ctx.configValue()
	fallback := cfg.Placeholders.Count
	answer, err := p.ask("Enter the number of placeholder ISO files to create (default is " + strconv.Itoa(fallback) + "): ")
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	count, perr := placeholder.ParseCount(answer, fallback)
	if perr != nil {
		fmt.Fprintf(p.out, "Invalid number %q; using %d.\n", answer, count)
	}

	req := placeholderRequest{count: count, dir: cfg.Placeholders.Directory}
	err = ctx.withLock(func() error {
		_, err := runPlaceholders(cmd, ctx, req, p.out)
		return err
	})
	if err != nil {
		logPassError(ctx, "placeholders", err)
		fmt.Fprintln(p.out, describeFailure(err))
	}
	return nil
}

// isTargetPathError reports a not-found or permission failure on the target
// directory or a file in it.
func isTargetPathError(err error) bool {
	var nf *services.NotFoundError
	if errors.As(err, &nf) {
		return nf.Kind != "catalog"
	}
	var pe *services.PermissionError
	if errors.As(err, &pe) {
		return pe.Kind != "catalog"
	}
	return false
}
