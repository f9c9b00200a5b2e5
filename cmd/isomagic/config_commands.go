package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"isomagic/internal/catalog"
	"isomagic/internal/config"
	"isomagic/internal/preflight"
	"isomagic/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit paths.catalog (or export ISOMAGIC_CATALOG) to point at your catalog file.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and check the catalog and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := newPrinter(cmd.OutOrStdout())
			out.section("Preflight")
			results := preflight.RunAll(cfg)
			for _, r := range results {
				kind := kindOK
				if !r.Passed {
					kind = kindError
				}
				out.status(r.Name, kind, r.Detail)
			}
			out.status("Threshold", kindInfo, fmt.Sprintf("%.3f", cfg.Matching.Threshold))
			out.status("Excluded prefixes", kindInfo, strings.Join(cfg.Matching.ExcludedPrefixes, ", "))
			out.status("Journal", kindInfo, yesNo(cfg.Journal.Enabled))

			failed := preflight.Failed(results)
			if strict && len(failed) == 0 {
				_, err := catalog.Load(cfg.Paths.Catalog, catalog.Options{
					ExcludedPrefixes: cfg.Matching.ExcludedPrefixes,
					Policy:           catalog.Strict,
				})
				if err != nil {
					out.status("Catalog syntax", kindError, err.Error())
					return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
				}
				out.status("Catalog syntax", kindOK, "every line is well formed")
			}
			if len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, r := range failed {
					names = append(names, strings.ToLower(r.Name))
				}
				return fmt.Errorf("%w: %d check(s) failed: %s", services.ErrConfiguration, len(failed), strings.Join(names, ", "))
			}
			fmt.Fprintln(out.w, "Configuration valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Also reject malformed catalog lines")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.configValue().Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
