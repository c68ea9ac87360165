// Package search orchestrates the fuzzy index, the relevance scorer and
// the result cache into the paginated search operation.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/steamseek/steamseek/internal/cache"
	"github.com/steamseek/steamseek/internal/catalog"
	"github.com/steamseek/steamseek/internal/games"
	"github.com/steamseek/steamseek/internal/index"
)

// Result is one ranked hit returned to the caller.
type Result struct {
	Record games.Game `json:"record"`
	Score  float64    `json:"relevanceScore"`
}

// Page is one window of a ranked result list.
type Page struct {
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalPages int      `json:"totalPages"`
	Games      []Result `json:"games"`
}

// Options bound the search pipeline.
type Options struct {
	// MaxCandidates caps how many index candidates are rescored per query.
	MaxCandidates int
	// ResultTTL is how long a ranked result list stays cached.
	ResultTTL time.Duration
}

type Service struct {
	store *catalog.Store
	cache *cache.Cache
	opts  Options
}

func NewService(store *catalog.Store, c *cache.Cache, opts Options) *Service {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 250
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = 5 * time.Minute
	}
	return &Service{store: store, cache: c, opts: opts}
}

// Search returns one page of the ranked results for query. Returns
// catalog.ErrNotReady (after kicking a coalesced background refresh)
// when no catalog generation is active yet.
//
// The full ranked list is cached keyed by generation and normalized
// query, so repeated queries within the TTL window skip the index pass
// and every page of one query comes from the same list.
func (s *Service) Search(query string, page, perPage int) (*Page, error) {
	gen := s.store.Current()
	if gen == nil || len(gen.Games) == 0 {
		s.store.RefreshAsync()
		return nil, catalog.ErrNotReady
	}

	normQuery := games.Normalize(query)

	key := fmt.Sprintf("search:%d:%s", gen.Num, normQuery)
	ranked, err := cache.GetOrCompute(s.cache, key, s.opts.ResultTTL, func() ([]Result, error) {
		return s.rank(gen, query, normQuery), nil
	})
	if err != nil {
		return nil, err
	}

	return paginate(ranked, page, perPage), nil
}

// rank runs the index query, applies the multi-word filter, rescores,
// and orders the result. The sort is stable over catalog order so ties
// resolve deterministically across identical queries.
func (s *Service) rank(gen *catalog.Generation, query, normQuery string) []Result {
	cands := gen.Index.Search(query, s.opts.MaxCandidates)

	words := strings.Fields(normQuery)
	if len(words) >= 2 {
		cands = filterAllWords(cands, words)
	}

	// Catalog order first, so the stable sort below breaks score ties
	// by catalog position.
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Pos < cands[j].Pos })

	out := make([]Result, len(cands))
	for i, c := range cands {
		out[i] = Result{
			Record: c.Game,
			Score:  index.Score(c.Game.Normalized, normQuery, c.Quality),
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	return out
}

// filterAllWords keeps candidates whose normalized name contains every
// query word as a substring. Fuzzy distance alone admits disjoint
// multi-word queries too generously.
func filterAllWords(cands []index.Candidate, words []string) []index.Candidate {
	out := cands[:0]
	for _, c := range cands {
		ok := true
		for _, w := range words {
			if !strings.Contains(c.Game.Normalized, w) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

func paginate(ranked []Result, page, perPage int) *Page {
	total := len(ranked)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	window := ranked[start:end]
	if window == nil {
		window = []Result{}
	}

	return &Page{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Games:      window,
	}
}
