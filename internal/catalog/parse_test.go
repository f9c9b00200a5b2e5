package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"isomagic/internal/services"
	"isomagic/internal/testsupport"
)

func mustParse(t *testing.T, input string, opts Options) *Catalog {
	t.Helper()
	c, err := Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestParseBasicEntries(t *testing.T) {
	c := mustParse(t, "ABCD Super Racer\nWXYZ Space Quest II\n", Options{})

	want := []Entry{
		{Name: "Super Racer", Code: "ABCD"},
		{Name: "Space Quest II", Code: "WXYZ"},
	}
	got := c.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if stats := c.Stats(); stats.Accepted != 2 || stats.Lines != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestParseExcludedPrefixesNeverAppear(t *testing.T) {
	input := strings.Join([]string{
		"ABCD Super Racer",
		"SLKA Foo",
		"SCKA-12345 Bar",
		"WXYZ Space Quest",
		"SLKAX Baz",
	}, "\n")
	c := mustParse(t, input, Options{})

	for _, e := range c.Entries() {
		if strings.HasPrefix(e.Code, "SLKA") || strings.HasPrefix(e.Code, "SCKA") {
			t.Fatalf("excluded entry present: %+v", e)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if stats := c.Stats(); stats.Excluded != 3 {
		t.Fatalf("excluded = %d, want 3", stats.Excluded)
	}
}

func TestParseExcludedOnlyYieldsEmpty(t *testing.T) {
	c := mustParse(t, "SLKA Foo\n", Options{})
	if c.Len() != 0 {
		t.Fatalf("len = %d, want 0", c.Len())
	}
}

func TestParseCustomPrefixes(t *testing.T) {
	c := mustParse(t, "SLKA Foo\nSLES Bar\n", Options{ExcludedPrefixes: []string{"SLES"}})
	if _, ok := c.Lookup("Foo"); !ok {
		t.Fatal("expected Foo with custom prefixes")
	}
	if _, ok := c.Lookup("Bar"); ok {
		t.Fatal("expected Bar to be excluded")
	}

	none := mustParse(t, "SLKA Foo\n", Options{ExcludedPrefixes: []string{}})
	if none.Len() != 1 {
		t.Fatalf("empty prefix list should exclude nothing, len = %d", none.Len())
	}
}

func TestParseMalformedLinesSkipped(t *testing.T) {
	input := strings.Join([]string{
		"ABCD",
		"   ",
		"",
		"ONLYCODE   ",
		"WXYZ Space Quest",
		"TAB\tSeparated",
	}, "\n")
	c := mustParse(t, input, Options{})

	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1 (%v)", c.Len(), c.Entries())
	}
	stats := c.Stats()
	if stats.Malformed != 3 {
		t.Fatalf("malformed = %d, want 3", stats.Malformed)
	}
	if stats.Blank != 2 {
		t.Fatalf("blank = %d, want 2", stats.Blank)
	}
}

func TestParseSplitsOnFirstSpaceOnly(t *testing.T) {
	c := mustParse(t, "  ABCD Super  Racer: The Game  \nWXYZ  Leading Space\n", Options{})

	if code, ok := c.Lookup("Super  Racer: The Game"); !ok || code != "ABCD" {
		t.Fatalf("Lookup = %q, %v", code, ok)
	}
	if code, ok := c.Lookup(" Leading Space"); !ok || code != "WXYZ" {
		t.Fatalf("expected name with leading space kept, got %v", c.Entries())
	}
}

func TestParseDuplicateNameLastWinsKeepsPosition(t *testing.T) {
	c := mustParse(t, "AAAA First\nBBBB Second\nCCCC First\n", Options{})

	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
	if entries[0] != (Entry{Name: "First", Code: "CCCC"}) {
		t.Fatalf("first entry = %+v, want First/CCCC", entries[0])
	}
	if c.Stats().Duplicates != 1 {
		t.Fatalf("duplicates = %d, want 1", c.Stats().Duplicates)
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	c := mustParse(t, "\ufeffABCD Super Racer\r\nWXYZ Space Quest\r\n", Options{})
	if code, ok := c.Lookup("Super Racer"); !ok || code != "ABCD" {
		t.Fatalf("Lookup after BOM = %q, %v (%v)", code, ok, c.Entries())
	}
	if code, ok := c.Lookup("Space Quest"); !ok || code != "WXYZ" {
		t.Fatalf("expected CRLF to be trimmed, got %v", c.Entries())
	}
}

func TestParseStrictReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("ABCD Super Racer\n\nBROKEN\n"), Options{Policy: Strict})
	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected LineError, got %v", err)
	}
	if lineErr.Line != 3 || lineErr.Text != "BROKEN" {
		t.Fatalf("unexpected line error: %+v", lineErr)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatal("expected validation marker")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gameid.txt"), Options{})
	var nf *services.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != "catalog" {
		t.Fatalf("kind = %q, want catalog", nf.Kind)
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	path := filepath.Join(t.TempDir(), "gameid.txt")
	testsupport.WriteCatalog(t, path, "ABCD Super Racer")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	_, err := Load(path, Options{})
	if !errors.Is(err, services.ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}
}

func TestReadLinesSkipsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameid.txt")
	testsupport.WriteCatalog(t, path, "ABCD Super Racer", "", "  ", "SLKA Foo", "NOSPACE")

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	want := []string{"ABCD Super Racer", "SLKA Foo", "NOSPACE"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines = %q, want %q", lines, want)
		}
	}
}

func TestHasExcludedPrefix(t *testing.T) {
	if !HasExcludedPrefix("SLKA-00001", DefaultExcludedPrefixes) {
		t.Fatal("expected SLKA match")
	}
	if HasExcludedPrefix("SLUS-00001", DefaultExcludedPrefixes) {
		t.Fatal("unexpected match")
	}
	if HasExcludedPrefix("SLKA", []string{""}) {
		t.Fatal("empty prefix must not match")
	}
}
