// Package index holds the fuzzy name index built from one catalog
// generation and the relevance scoring applied on top of it. An Index is
// immutable once built; a catalog refresh builds a fresh one and swaps it
// in wholesale.
package index

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/steamseek/steamseek/internal/games"
)

// DefaultCutoff is the worst fuzzy quality still admitted as a match.
const DefaultCutoff = 0.4

// Candidate is one approximate match. Quality is a [0,1] distance,
// 0 = perfect. Pos is the record's position in catalog order.
type Candidate struct {
	Game    games.Game
	Pos     int
	Quality float64
}

type entry struct {
	game     games.Game
	pos      int
	rawLower string
}

// Index supports typo-tolerant lookup by game name. Records whose
// normalized name is empty are excluded at build time: they stay in the
// catalog but never match a search.
type Index struct {
	entries []entry
	cutoff  float64
}

// Build preprocesses a catalog slice into a searchable Index. A cutoff
// of 0 selects DefaultCutoff.
func Build(list []games.Game, cutoff float64) *Index {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	ix := &Index{cutoff: cutoff}
	ix.entries = make([]entry, 0, len(list))
	for pos, g := range list {
		if g.Normalized == "" {
			continue
		}
		ix.entries = append(ix.entries, entry{
			game:     g,
			pos:      pos,
			rawLower: strings.ToLower(g.Name),
		})
	}

	return ix
}

// Len returns the number of searchable records.
func (ix *Index) Len() int { return len(ix.entries) }

// Search returns up to limit candidates ordered by quality ascending,
// ties in catalog order. Matching is case-insensitive and references
// both the raw and the normalized name, the raw name weighted double.
// When no record passes the distance cutoff, a subsequence pass admits
// abbreviation-style queries ("csgo") at degraded quality.
func (ix *Index) Search(query string, limit int) []Candidate {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryNorm := games.Normalize(query)
	if queryLower == "" {
		return nil
	}

	var out []Candidate
	for _, e := range ix.entries {
		qRaw := keyQuality(queryLower, e.rawLower)
		qNorm := keyQuality(queryNorm, e.game.Normalized)
		q := (2*qRaw + qNorm) / 3
		if q > ix.cutoff {
			continue
		}
		out = append(out, Candidate{Game: e.game, Pos: e.pos, Quality: q})
	}

	if len(out) == 0 {
		out = ix.subsequenceFallback(queryNorm)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quality != out[j].Quality {
			return out[i].Quality < out[j].Quality
		}
		return out[i].Pos < out[j].Pos
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// keyQuality measures how well query matches key: the lesser of the
// best-window edit distance (normalized by query length) and the plain
// Levenshtein distance (normalized by the longer string), capped at 1.
func keyQuality(query, key string) float64 {
	if query == "" || key == "" {
		return 1
	}

	q := []rune(query)
	k := []rune(key)

	window := float64(windowDistance(q, k)) / float64(len(q))

	longer := len(q)
	if len(k) > longer {
		longer = len(k)
	}
	whole := float64(levenshtein.ComputeDistance(query, key)) / float64(longer)

	best := window
	if whole < best {
		best = whole
	}
	if best > 1 {
		best = 1
	}
	return best
}

// windowDistance is the minimum edit distance (with adjacent
// transpositions counted as one edit) between query and any substring of
// text. Skipping text before and after the window is free.
func windowDistance(query, text []rune) int {
	m, n := len(query), len(text)

	prev2 := make([]int, n+1)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	// prev starts as all zeros: the window may begin anywhere.

	best := m
	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if query[i-1] == text[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost
			if v := prev[j] + 1; v < d {
				d = v
			}
			if v := cur[j-1] + 1; v < d {
				d = v
			}
			if i > 1 && j > 1 && query[i-1] == text[j-2] && query[i-2] == text[j-1] {
				if v := prev2[j-2] + 1; v < d {
					d = v
				}
			}
			cur[j] = d
		}
		prev2, prev, cur = prev, cur, prev2
	}

	for j := 0; j <= n; j++ {
		if prev[j] < best {
			best = prev[j]
		}
	}
	return best
}

// normSource adapts the entry slice to fuzzy.Source over normalized names.
type normSource []entry

func (s normSource) String(i int) string { return s[i].game.Normalized }
func (s normSource) Len() int            { return len(s) }

func (ix *Index) subsequenceFallback(queryNorm string) []Candidate {
	if queryNorm == "" {
		return nil
	}

	matches := fuzzy.FindFrom(queryNorm, normSource(ix.entries))
	if len(matches) == 0 {
		return nil
	}

	// Rank order from the matcher, mapped into (0.2, 0.4] so fallback
	// results always rate worse than a direct distance hit would.
	out := make([]Candidate, len(matches))
	for i, m := range matches {
		e := ix.entries[m.Index]
		out[i] = Candidate{
			Game:    e.game,
			Pos:     e.pos,
			Quality: 0.2 + 0.2*float64(i+1)/float64(len(matches)),
		}
	}
	return out
}
