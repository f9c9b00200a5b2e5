package catalog

import "strings"

// Entry is a single catalog title and its identifier code.
type Entry struct {
	Name string
	Code string
}

// ParseStats counts how each input line was handled.
type ParseStats struct {
	Lines      int
	Blank      int
	Accepted   int
	Malformed  int
	Excluded   int
	Duplicates int
}

// Catalog is an ordered name-to-code mapping. It is read-only once loaded.
type Catalog struct {
	entries []Entry
	index   map[string]int
	stats   ParseStats
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// FromEntries builds a catalog from entries in order, applying the same
// duplicate-name rule as Parse.
func FromEntries(entries ...Entry) *Catalog {
	c := New()
	for _, e := range entries {
		c.add(e)
	}
	return c
}

// add inserts or replaces an entry and reports whether the name already existed.
func (c *Catalog) add(e Entry) bool {
	if pos, ok := c.index[e.Name]; ok {
		c.entries[pos].Code = e.Code
		return true
	}
	c.index[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
	return false
}

// Len returns the number of distinct names.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in iteration order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Lookup returns the code for an exact name.
func (c *Catalog) Lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	pos, ok := c.index[name]
	if !ok {
		return "", false
	}
	return c.entries[pos].Code, true
}

// Stats reports how the source lines were handled.
func (c *Catalog) Stats() ParseStats {
	if c == nil {
		return ParseStats{}
	}
	return c.stats
}

// HasExcludedPrefix reports whether code starts with any of prefixes.
func HasExcludedPrefix(code string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
