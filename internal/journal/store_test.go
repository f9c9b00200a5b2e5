package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"isomagic/internal/journal"
	"isomagic/internal/testsupport"
)

func TestRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, journal.KindRename, "/isos", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run id")
	}

	actions := []journal.Action{
		{RunID: run.ID, Status: "renamed", Source: "super racer.iso", Target: "ABCD super racer.iso", Code: "ABCD", Score: 1},
		{RunID: run.ID, Status: "unmatched", Source: "notes.txt"},
	}
	for _, a := range actions {
		if err := store.RecordAction(ctx, a); err != nil {
			t.Fatalf("RecordAction: %v", err)
		}
	}
	if err := store.FinishRun(ctx, run.ID, journal.Summary{Scanned: 2, Changed: 1}, nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Kind != journal.KindRename || got.Directory != "/isos" || got.DryRun {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.Scanned != 2 || got.Changed != 1 || got.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if !got.Finished() {
		t.Fatal("expected run to be finished")
	}
	if got.Error != "" {
		t.Fatalf("unexpected error message %q", got.Error)
	}

	stored, err := store.Actions(ctx, run.ID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(stored))
	}
	if stored[0].Target != "ABCD super racer.iso" || stored[0].Code != "ABCD" || stored[0].Score != 1 {
		t.Fatalf("unexpected first action: %+v", stored[0])
	}
	if stored[1].Status != "unmatched" || stored[1].Target != "" {
		t.Fatalf("unexpected second action: %+v", stored[1])
	}
	if stored[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestFinishRunStoresError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, journal.KindPrune, "/isos", true)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, journal.Summary{}, errors.New("directory vanished")); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Error != "directory vanished" {
		t.Fatalf("error = %q", got.Error)
	}
	if !got.DryRun {
		t.Fatal("expected dry run flag")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	var ids []string
	for _, kind := range []journal.Kind{journal.KindRename, journal.KindPrune, journal.KindPlaceholders} {
		run, err := store.BeginRun(ctx, kind, "", false)
		if err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[2].ID != ids[0] {
		t.Fatalf("unexpected order: %s %s %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 runs with limit, got %d", len(limited))
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, journal.KindRename, "/isos", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	got, err := store.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun prefix: %v", err)
	}
	if got.ID != run.ID {
		t.Fatalf("GetRun prefix returned %s, want %s", got.ID, run.ID)
	}

	if _, err := store.GetRun(ctx, "does-not-exist"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRecordActionRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if err := store.RecordAction(context.Background(), journal.Action{Status: "renamed"}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run, err := store.BeginRun(context.Background(), journal.KindRename, "/isos", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := journal.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetRun(context.Background(), run.ID); err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
}

func TestOpenRecordsJournalVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != 1 {
		t.Fatalf("user_version = %d, want 1", version)
	}
}

func TestOpenRejectsNewerJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump user_version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	if _, err := journal.Open(path); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
