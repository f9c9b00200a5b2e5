package placeholder

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"isomagic/internal/testsupport"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerateCapsAtAvailableLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "testISOs")
	lines := []string{"ABCD Super Racer", "WXYZ Space Quest", "EFGH Who? Me: <The Game>"}

	result, err := Generate(context.Background(), lines, dir, 5, Options{Rand: seeded()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Requested != 5 || result.Sampled != 3 || result.Created != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	testsupport.AssertNames(t, dir, "Super Racer.iso", "Space Quest.iso", "Who_ Me_ _The Game_.iso")
}

func TestGenerateSamplesWithoutReplacement(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := range 50 {
		lines = append(lines, "CODE Title "+strings.Repeat("x", i+1))
	}

	result, err := Generate(context.Background(), lines, dir, 20, Options{Rand: seeded()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Created != 20 {
		t.Fatalf("created = %d, want 20", result.Created)
	}
	if got := len(testsupport.ListNames(t, dir)); got != 20 {
		t.Fatalf("distinct files = %d, want 20", got)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	lines := []string{"A a", "B b", "C c", "D d", "E e"}
	first, err := Generate(context.Background(), lines, t.TempDir(), 3, Options{Rand: seeded()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(context.Background(), lines, t.TempDir(), 3, Options{Rand: seeded()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Join(first.Files, ",") != strings.Join(second.Files, ",") {
		t.Fatalf("same seed produced %v and %v", first.Files, second.Files)
	}
}

func TestGenerateCustomExtension(t *testing.T) {
	dir := t.TempDir()
	result, err := Generate(context.Background(), []string{"ABCD Super Racer"}, dir, 1, Options{Extension: ".bin"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Files[0] != "Super Racer.bin" {
		t.Fatalf("file = %q", result.Files[0])
	}
}

func TestGenerateContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	long := "ABCD " + strings.Repeat("n", 300)
	var created []string

	result, err := Generate(context.Background(), []string{long, "WXYZ Space Quest"}, dir, 2, Options{
		Rand:     seeded(),
		OnCreate: func(name string, err error) { created = append(created, name) },
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Failures) != 1 || result.Created != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(created) != 2 {
		t.Fatalf("OnCreate calls = %d, want 2", len(created))
	}
	testsupport.AssertNames(t, dir, "Space Quest.iso")
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"ABCD Super Racer":          "Super Racer",
		"ABCD   Padded Title   ":    "Padded Title",
		"NOSPACE":                   "NOSPACE",
		`SLUS-1 Half/Life: "Blue"?`: `Half_Life_ _Blue__`,
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		invalid bool
	}{
		{"", 100, false},
		{"   ", 100, false},
		{"5", 5, false},
		{" 42 ", 42, false},
		{"abc", 100, true},
		{"0", 100, true},
		{"-3", 100, true},
		{"2.5", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCount(tt.input, DefaultCount)
			if got != tt.want {
				t.Fatalf("ParseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
			if tt.invalid != errors.Is(err, ErrInvalidCount) {
				t.Fatalf("ParseCount(%q) err = %v, invalid want %v", tt.input, err, tt.invalid)
			}
		})
	}
}

func TestSampleEdges(t *testing.T) {
	if got := Sample(seeded(), nil, 3); got != nil {
		t.Fatalf("Sample(nil) = %v", got)
	}
	if got := Sample(seeded(), []string{"a"}, 0); got != nil {
		t.Fatalf("Sample(n=0) = %v", got)
	}
	if got := Sample(nil, []string{"a", "b"}, 5); len(got) != 2 {
		t.Fatalf("Sample with nil rand = %v", got)
	}
}
