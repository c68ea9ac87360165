package index

import (
	"strings"
	"unicode/utf8"
)

// Relevance tiers. The bands are wide enough that tier membership always
// dominates the fuzzy baseline, which stays within [0, 100].
const (
	scoreExact     = 100000
	scorePrefix    = 50000
	scoreWholeWord = 20000
	scoreSubstring = 10000

	shortNameLen   = 30
	shortNameBoost = 5
)

// Score ranks a candidate for a query. Both name and query must already
// be normalized. quality is the [0,1] fuzzy distance, 0 = perfect.
//
// Exact matches outrank prefix matches, which outrank whole-word
// matches, which outrank plain substring matches, which outrank pure
// fuzzy hits. Within the fuzzy tier short names get a boost so that, at
// equal distance, "Dota 2" ranks above a long title.
func Score(name, query string, quality float64) float64 {
	base := (1 - quality) * 100

	switch {
	case name == query:
		return scoreExact
	case strings.HasPrefix(name, query):
		return scorePrefix + base
	case containsWord(name, query):
		return scoreWholeWord + base
	case strings.Contains(name, query):
		return scoreSubstring + base
	}

	if n := utf8.RuneCountInString(name); n < shortNameLen {
		base += float64(shortNameLen-n) * shortNameBoost
	}
	return base
}

// containsWord reports whether query appears in name bounded by spaces
// or the string edges.
func containsWord(name, query string) bool {
	return strings.Contains(" "+name+" ", " "+query+" ")
}
