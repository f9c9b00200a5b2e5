package renamer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"isomagic/internal/services"
	"isomagic/internal/testsupport"
)

func TestPruneRemovesOnlyExcludedPrefixes(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "SLKA Title1.iso", "WXYZ Title2.iso")

	result, err := Prune(context.Background(), dir, nil, Options{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if result.Removed != 1 {
		t.Fatalf("removed = %d, want 1", result.Removed)
	}
	testsupport.AssertNames(t, dir, "WXYZ Title2.iso")
}

func TestPruneDryRun(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "SCKA One.iso", "SLKA Two.iso", "ABCD Three.iso")

	result, err := Prune(context.Background(), dir, nil, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if result.Planned != 2 || result.Removed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	testsupport.AssertNames(t, dir, "SCKA One.iso", "SLKA Two.iso", "ABCD Three.iso")
}

func TestPruneCustomPrefixes(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "SLKA Title.iso", "SLES Title.iso")

	result, err := Prune(context.Background(), dir, []string{"SLES"}, Options{})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if result.Removed != 1 {
		t.Fatalf("removed = %d, want 1", result.Removed)
	}
	testsupport.AssertNames(t, dir, "SLKA Title.iso")
}

func TestPruneMissingDirectory(t *testing.T) {
	_, err := Prune(context.Background(), filepath.Join(t.TempDir(), "missing"), nil, Options{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPruneRecordsJournalForCandidatesOnly(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "SLKA Title1.iso", "WXYZ Title2.iso")
	recorder := &recordedActions{}

	if _, err := Prune(context.Background(), dir, nil, Options{Journal: recorder, RunID: "run-2"}); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(recorder.actions) != 1 {
		t.Fatalf("journal actions = %d, want 1", len(recorder.actions))
	}
	if recorder.actions[0].Source != "SLKA Title1.iso" || recorder.actions[0].Status != string(StatusRemoved) {
		t.Fatalf("unexpected journal action: %+v", recorder.actions[0])
	}
}

func TestHasPrunePrefix(t *testing.T) {
	prefixes := []string{"SLKA", "SCKA"}
	tests := []struct {
		name string
		want bool
	}{
		{"SLKA Title.iso", true},
		{"SCKA_Title.iso", true},
		{"slka Title.iso", false},
		{"SLK", false},
		{"XSLKA Title.iso", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasPrunePrefix(tt.name, prefixes); got != tt.want {
			t.Errorf("HasPrunePrefix(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if !HasPrunePrefix("AB", []string{"AB"}) {
		t.Error("short name equal to a prefix should match")
	}
	if !HasPrunePrefix("ゼルダの伝説.iso", []string{"ゼルダの"}) {
		t.Error("prefix comparison should count characters, not bytes")
	}
}
