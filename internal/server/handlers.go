package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/steamseek/steamseek/internal/cache"
	"github.com/steamseek/steamseek/internal/catalog"
	"github.com/steamseek/steamseek/internal/config"
	"github.com/steamseek/steamseek/internal/games"
	"github.com/steamseek/steamseek/internal/search"
	"github.com/steamseek/steamseek/internal/steam"
	"github.com/steamseek/steamseek/internal/steamgrid"
)

// Curated list caps, matching what the storefront front page shows.
const (
	hotLimit = 46
	topLimit = 40
)

type Handlers struct {
	search  *search.Service
	store   *catalog.Store
	steam   *steam.Client
	grid    *steamgrid.Client
	cache   *cache.Cache
	cfg     config.SearchConfig
	ttl     config.CacheConfig
	log     *slog.Logger
	started time.Time
}

func NewHandlers(
	svc *search.Service,
	store *catalog.Store,
	steamClient *steam.Client,
	grid *steamgrid.Client,
	c *cache.Cache,
	searchCfg config.SearchConfig,
	cacheCfg config.CacheConfig,
	log *slog.Logger,
) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		search:  svc,
		store:   store,
		steam:   steamClient,
		grid:    grid,
		cache:   c,
		cfg:     searchCfg,
		ttl:     cacheCfg,
		log:     log,
		started: time.Now(),
	}
}

// Status reports service health and catalog/cache statistics.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
		"cache":  map[string]any{"entries": h.cache.Len()},
	}

	cat := map[string]any{"ready": h.store.Ready()}
	if gen := h.store.Current(); gen != nil {
		cat["generation"] = gen.Num
		cat["count"] = len(gen.Games)
		cat["loadedAt"] = gen.LoadedAt.UTC().Format(time.RFC3339)
	}
	resp["catalog"] = cat

	writeJSON(w, http.StatusOK, resp)
}

// Refresh triggers an asynchronous catalog refresh.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	h.store.RefreshAsync()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

// SearchGames serves GET /games/search?q=...&page=...&perPage=...
func (h *Handlers) SearchGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	page, perPage := h.pagination(r)

	result, err := h.search.Search(query, page, perPage)
	if err != nil {
		if errors.Is(err, catalog.ErrNotReady) {
			writeError(w, http.StatusServiceUnavailable, "Catalog not ready")
			return
		}
		h.log.Error("search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListGames serves GET /games: an unfiltered, stably ordered page of the
// active catalog.
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	gen := h.store.Current()
	if gen == nil || len(gen.Games) == 0 {
		h.store.RefreshAsync()
		writeError(w, http.StatusServiceUnavailable, "Catalog not ready")
		return
	}

	page, perPage := h.pagination(r)

	total := len(gen.Games)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	window := gen.Games[start:end]
	if window == nil {
		window = []games.Game{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"page":    page,
		"perPage": perPage,
		"games":   window,
	})
}

// HotGames serves GET /games/hot.
func (h *Handlers) HotGames(w http.ResponseWriter, r *http.Request) {
	h.featuredList(w, r, "hot")
}

// TopGames serves GET /games/top.
func (h *Handlers) TopGames(w http.ResponseWriter, r *http.Request) {
	h.featuredList(w, r, "top")
}

func (h *Handlers) featuredList(w http.ResponseWriter, r *http.Request, kind string) {
	featured, err := cache.GetOrCompute(h.cache, "featured", h.ttl.FeaturedTTL, func() (steam.Featured, error) {
		return h.steam.FeaturedCategories(r.Context())
	})
	if err != nil {
		h.log.Error("featured lists fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Upstream unavailable")
		return
	}

	ids, limit := featured.Specials, hotLimit
	if kind == "top" {
		ids, limit = featured.TopSellers, topLimit
	}

	details := make([]json.RawMessage, 0, limit)
	for _, id := range ids {
		if len(details) == limit {
			break
		}
		detail, err := h.detail(r, id)
		if err != nil {
			// One bad entry never fails the list.
			continue
		}
		details = append(details, detail)
	}

	writeJSON(w, http.StatusOK, details)
}

// GameByID serves GET /games/{id}: the opaque detail payload.
func (h *Handlers) GameByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gameID(w, r)
	if !ok {
		return
	}

	detail, err := h.detail(r, id)
	switch {
	case errors.Is(err, steam.ErrNotFound):
		writeError(w, http.StatusNotFound, "Game not found")
	case err != nil:
		h.log.Error("detail fetch failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Upstream unavailable")
	default:
		writeJSON(w, http.StatusOK, detail)
	}
}

// detail is the cached per-app detail lookup shared by the id and list
// endpoints. Not-found and transport failures are never cached.
func (h *Handlers) detail(r *http.Request, id int) (json.RawMessage, error) {
	key := fmt.Sprintf("detail:%d", id)
	return cache.GetOrCompute(h.cache, key, h.ttl.DetailTTL, func() (json.RawMessage, error) {
		return h.steam.AppDetails(r.Context(), id)
	})
}

// GameLogos serves GET /games/{id}/logos.
func (h *Handlers) GameLogos(w http.ResponseWriter, r *http.Request) {
	h.assets(w, r, "logos")
}

// GameHeroes serves GET /games/{id}/heroes.
func (h *Handlers) GameHeroes(w http.ResponseWriter, r *http.Request) {
	h.assets(w, r, "heroes")
}

// assets serves the two asset endpoints with outcome-dependent caching:
// hits live a day, confirmed not-founds an hour, and credential or
// transport failures are never cached.
func (h *Handlers) assets(w http.ResponseWriter, r *http.Request, kind string) {
	id, ok := h.gameID(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("%s:%d", kind, id)
	if v, found := h.cache.Get(key); found {
		if list, ok := v.([]steamgrid.Asset); ok {
			writeJSON(w, http.StatusOK, map[string]any{kind: list})
			return
		}
	}

	var list []steamgrid.Asset
	var err error
	if kind == "logos" {
		list, err = h.grid.Logos(r.Context(), id)
	} else {
		list, err = h.grid.Heroes(r.Context(), id)
	}

	switch {
	case err == nil:
		if list == nil {
			list = []steamgrid.Asset{}
		}
		h.cache.Set(key, list, h.ttl.AssetTTL)
	case errors.Is(err, steamgrid.ErrNotFound):
		list = []steamgrid.Asset{}
		h.cache.Set(key, list, h.ttl.AssetMissTTL)
	case errors.Is(err, steamgrid.ErrMisconfigured):
		h.log.Warn("asset lookup disabled", "id", id, "error", err)
		list = []steamgrid.Asset{}
	default:
		h.log.Error("asset fetch failed", "id", id, "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "Upstream unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{kind: list})
}

// gameID parses the {id} path parameter; writes a 400 and returns false
// when it is not a positive integer.
func (h *Handlers) gameID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid game id")
		return 0, false
	}
	return id, true
}

// pagination reads page/perPage with defaults and the perPage cap.
func (h *Handlers) pagination(r *http.Request) (page, perPage int) {
	page = 1
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n >= 1 {
		page = n
	}

	perPage = h.cfg.DefaultPerPage
	if n, err := strconv.Atoi(r.URL.Query().Get("perPage")); err == nil && n >= 1 {
		perPage = n
	}
	if perPage > h.cfg.MaxPerPage {
		perPage = h.cfg.MaxPerPage
	}
	return page, perPage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
