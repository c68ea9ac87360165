package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTiers(t *testing.T) {
	const q = 0.1

	exact := Score("dota 2", "dota 2", q)
	prefix := Score("dota 2 workshop tools", "dota 2", q)
	word := Score("the dota 2 collection", "dota 2", q)
	substring := Score("anthology dota 2015", "dota 2", 0.3) // "dota 2" inside "dota 2015"
	fuzzyOnly := Score("dote", "dota", q)

	assert.Equal(t, float64(100000), exact)
	assert.Greater(t, exact, prefix)
	assert.Greater(t, prefix, word)
	assert.Greater(t, word, substring)
	assert.Greater(t, substring, fuzzyOnly)
}

func TestScoreExactIsFlat(t *testing.T) {
	// Exact matches ignore the fuzzy baseline entirely.
	assert.Equal(t, Score("dota 2", "dota 2", 0), Score("dota 2", "dota 2", 0.39))
}

func TestScoreTierDominatesBaseline(t *testing.T) {
	// A prefix match at the worst admissible quality still beats a
	// whole-word match at perfect quality.
	worstPrefix := Score("dota 2 something", "dota 2", 0.4)
	bestWord := Score("best of dota 2 list", "dota 2", 0)
	assert.Greater(t, worstPrefix, bestWord)
}

func TestScoreShortNameBoost(t *testing.T) {
	short := Score("dote", "dota", 0.2)
	long := Score("dote and the extremely long subtitle", "dota", 0.2)
	assert.Greater(t, short, long)

	// Boost caps at the tier edge: a boosted fuzzy hit never reaches
	// the substring tier.
	assert.Less(t, short, float64(scoreSubstring))
}

func TestScoreExactDominance(t *testing.T) {
	// An exact match outranks any non-exact match regardless of quality.
	exact := Score("dota 2", "dota 2", 0.4)
	for _, name := range []string{"dota 2 workshop tools", "x dota 2 x", "dota 25", "daft"} {
		assert.Greater(t, exact, Score(name, "dota 2", 0))
	}
}

func TestScorePrefixOutranksFuzzy(t *testing.T) {
	// Relevance ordering from the product requirement: "Dota 2" must
	// rank above a name matched only through fuzzy distance.
	prefixTier := Score("dota 2", "dota", 0.1)
	fuzzyTier := Score("dote plus sample pack", "dota", 0.05)
	assert.Greater(t, prefixTier, fuzzyTier)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("the dota collection", "dota"))
	assert.True(t, containsWord("dota two", "dota"))
	assert.True(t, containsWord("big dota", "dota"))
	assert.False(t, containsWord("underdota run", "dota"))
	assert.False(t, containsWord("dotaco", "dota"))
}
