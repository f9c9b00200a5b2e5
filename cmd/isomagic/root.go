package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// executeRoot runs the command tree and closes the journal afterwards. Cobra
// skips post-run hooks when a command fails, so the close happens here.
func executeRoot(ctx context.Context, cmd *cobra.Command, cc *commandContext) error {
	err := cmd.ExecuteContext(ctx)
	if cerr := cc.close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func buildRootCommand() (*cobra.Command, *commandContext) {
	var configFlag string
	var verbose bool
	var quiet bool

	ctx := newCommandContext(&configFlag, &verbose, &quiet)

	rootCmd := &cobra.Command{
		Use:           "isomagic",
		Short:         "Tag disc images with catalog codes by fuzzy title matching",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show info-level logs on the terminal")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress bars")

	rootCmd.AddCommand(newRenameCommand(ctx))
	rootCmd.AddCommand(newPruneCommand(ctx))
	rootCmd.AddCommand(newPlaceholdersCommand(ctx))
	rootCmd.AddCommand(newMatchCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newMenuCommand(ctx))

	return rootCmd, ctx
}
