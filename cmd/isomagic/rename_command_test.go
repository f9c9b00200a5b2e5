package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"isomagic/internal/renamer"
	"isomagic/internal/runlock"
	"isomagic/internal/services"
	"isomagic/internal/testsupport"
)

func TestRenameCommandRenamesMatches(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer", "SLKA Super Racer K"))
	testsupport.Touch(t, env.isoDir, "super racer.iso", "totally_unrelated_name.bin")

	out, _, err := runCLI(t, []string{"rename", env.isoDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	requireContains(t, out, "Total files renamed: 1")
	requireContains(t, out, "ABCD super racer.iso")
	testsupport.AssertNames(t, env.isoDir, "ABCD super racer.iso", "totally_unrelated_name.bin")
}

func TestRenameCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer"))
	testsupport.Touch(t, env.isoDir, "super racer.iso")

	out, _, err := runCLI(t, []string{"rename", "--dry-run", env.isoDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("rename --dry-run: %v", err)
	}
	requireContains(t, out, "Would rename")
	requireContains(t, out, "Total files renamed: 0")
	testsupport.AssertNames(t, env.isoDir, "super racer.iso")
}

func TestRenameCommandWithPrune(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer"))
	testsupport.Touch(t, env.isoDir, "super racer.iso", "SLKA Title1.iso", "WXYZ Title2.iso")

	out, _, err := runCLI(t, []string{"rename", "--prune", env.isoDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("rename --prune: %v", err)
	}
	requireContains(t, out, "Total files renamed: 1")
	requireContains(t, out, "Total excluded titles removed: 1")
	testsupport.AssertNames(t, env.isoDir, "ABCD super racer.iso", "WXYZ Title2.iso")
}

func TestRenameCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer"))
	testsupport.Touch(t, env.isoDir, "super racer.iso", "other.iso")

	out, _, err := runCLI(t, []string{"rename", "--json", env.isoDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("rename --json: %v", err)
	}
	var decoded struct {
		Rename *renamer.RenameResult `json:"rename"`
		RunIDs []string              `json:"run_ids"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if decoded.Rename == nil || decoded.Rename.Renamed != 1 || decoded.Rename.Unmatched != 1 {
		t.Fatalf("unexpected result: %+v", decoded.Rename)
	}
	if len(decoded.RunIDs) != 1 {
		t.Fatalf("expected one journaled run, got %v", decoded.RunIDs)
	}
}

func TestRenameCommandThresholdFlag(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer"))
	testsupport.Touch(t, env.isoDir, "super racr.iso")

	if _, _, err := runCLI(t, []string{"rename", "--threshold", "0.99", env.isoDir}, env.configPath, ""); err != nil {
		t.Fatalf("rename: %v", err)
	}
	testsupport.AssertNames(t, env.isoDir, "super racr.iso")

	for _, bad := range []string{"1.5", "0", "-0.2"} {
		if _, _, err := runCLI(t, []string{"rename", "--threshold", bad, env.isoDir}, env.configPath, ""); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("--threshold %s: expected validation error, got %v", bad, err)
		}
	}
}

func TestRenameCommandMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer"))

	_, _, err := runCLI(t, []string{"rename", filepath.Join(env.baseDir, "missing")}, env.configPath, "")
	var nf *services.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "directory" {
		t.Fatalf("expected directory NotFoundError, got %v", err)
	}
}

func TestRenameCommandMissingCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.isoDir, "super racer.iso")

	_, _, err := runCLI(t, []string{"rename", env.isoDir}, env.configPath, "")
	var nf *services.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "catalog" {
		t.Fatalf("expected catalog NotFoundError, got %v", err)
	}
	testsupport.AssertNames(t, env.isoDir, "super racer.iso")
}

func TestRenameCommandRespectsRunLock(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCatalog("ABCD Super Racer"))
	testsupport.Touch(t, env.isoDir, "super racer.iso")

	lock, err := runlock.Acquire(env.cfg.LockPath())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	t.Cleanup(func() { _ = lock.Release() })

	_, _, err = runCLI(t, []string{"rename", env.isoDir}, env.configPath, "")
	if !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
	testsupport.AssertNames(t, env.isoDir, "super racer.iso")
}

func TestPruneCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.isoDir, "SLKA Title1.iso", "WXYZ Title2.iso")

	out, _, err := runCLI(t, []string{"prune", "--dry-run", env.isoDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("prune --dry-run: %v", err)
	}
	requireContains(t, out, "Would remove: SLKA Title1.iso")
	testsupport.AssertNames(t, env.isoDir, "SLKA Title1.iso", "WXYZ Title2.iso")

	out, _, err = runCLI(t, []string{"prune", env.isoDir}, env.configPath, "")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	requireContains(t, out, "Total excluded titles removed: 1")
	testsupport.AssertNames(t, env.isoDir, "WXYZ Title2.iso")
}

func TestPruneCommandCustomPrefix(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.isoDir, "SLKA Title1.iso", "WXYZ Title2.iso")

	if _, _, err := runCLI(t, []string{"prune", "--prefix", "wxyz", env.isoDir}, env.configPath, ""); err != nil {
		t.Fatalf("prune: %v", err)
	}
	testsupport.AssertNames(t, env.isoDir, "SLKA Title1.iso")
}

func TestRenameHelpDescribesMatchingAndConflicts(t *testing.T) {
	out, _, err := runCLI(t, []string{"rename", "--help"}, "", "")
	if err != nil {
		t.Fatalf("rename --help: %v", err)
	}
	requireContains(t, out, "NFC-normalized")
	requireContains(t, out, "existing files are never overwritten")
}
