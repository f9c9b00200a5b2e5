package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"isomagic/internal/config"
	"isomagic/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	isoDir     string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("ISOMAGIC_CATALOG", "")

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	isoDir := filepath.Join(base, "isos")
	if err := os.MkdirAll(isoDir, 0o755); err != nil {
		t.Fatalf("mkdir iso dir: %v", err)
	}

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		isoDir:     isoDir,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	stdout, stderr, _, err := runCLIWithContext(t, args, configPath, stdin)
	return stdout, stderr, err
}

// runCLIWithContext is runCLI that also returns the command context so tests
// can inspect what the run left open.
func runCLIWithContext(t *testing.T, args []string, configPath, stdin string) (string, string, *commandContext, error) {
	t.Helper()
	cmd, cc := buildRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := executeRoot(context.Background(), cmd, cc)
	return stdout.String(), stderr.String(), cc, err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q, got:\n%s", needle, haystack)
	}
}
