package matching

import (
	"cmp"
	"fmt"
	"slices"

	"isomagic/internal/catalog"
	"isomagic/internal/textutil"
)

// DefaultThreshold is the similarity a candidate must strictly exceed.
const DefaultThreshold = 0.8

// Options configures a Matcher.
type Options struct {
	// Threshold in [0, 1]. Zero means DefaultThreshold; use a tiny positive
	// value to accept nearly anything.
	Threshold float64
}

// Candidate is a catalog entry scored against one filename.
type Candidate struct {
	Entry catalog.Entry
	Score float64
}

type keyedEntry struct {
	entry catalog.Entry
	key   string
}

// Matcher scores base names against a fixed catalog.
type Matcher struct {
	entries   []keyedEntry
	threshold float64
}

// New prepares a matcher over cat. Catalog names are folded once up front.
func New(cat *catalog.Catalog, opts Options) (*Matcher, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("matching threshold %v outside [0, 1]", threshold)
	}
	entries := cat.Entries()
	keyed := make([]keyedEntry, len(entries))
	for i, e := range entries {
		keyed[i] = keyedEntry{entry: e, key: textutil.MatchKey(e.Name)}
	}
	return &Matcher{entries: keyed, threshold: threshold}, nil
}

// Threshold returns the effective threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Len returns the number of catalog entries the matcher considers.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Best returns the highest scoring entry above the threshold. Ties keep the
// entry seen first.
func (m *Matcher) Best(baseName string) (Candidate, bool) {
	key := textutil.MatchKey(baseName)
	var (
		best  Candidate
		found bool
	)
	for _, ke := range m.entries {
		score := textutil.Similarity(key, ke.key)
		if score > best.Score && score > m.threshold {
			best = Candidate{Entry: ke.entry, Score: score}
			found = true
		}
	}
	return best, found
}

// Rank scores every entry and returns the top limit candidates by descending
// score, ties in catalog order. A limit <= 0 returns all of them. The
// threshold does not filter the ranking.
func (m *Matcher) Rank(baseName string, limit int) []Candidate {
	key := textutil.MatchKey(baseName)
	ranked := make([]Candidate, len(m.entries))
	for i, ke := range m.entries {
		ranked[i] = Candidate{Entry: ke.entry, Score: textutil.Similarity(key, ke.key)}
	}
	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Accepts reports whether a score clears the threshold.
func (m *Matcher) Accepts(score float64) bool {
	return score > m.threshold
}
