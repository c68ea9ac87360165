// Package catalog owns the active game catalog: its disk snapshot, the
// upstream refresh cycle, and the atomic swap that makes a freshly built
// generation visible to readers.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/steamseek/steamseek/internal/games"
	"github.com/steamseek/steamseek/internal/index"
	"github.com/steamseek/steamseek/internal/steam"
)

// ErrNotReady means no catalog generation has been activated yet.
var ErrNotReady = errors.New("catalog not ready")

// Fetcher is the upstream catalog source. *steam.Client implements it.
type Fetcher interface {
	AppList(ctx context.Context) ([]steam.App, error)
}

// Generation is one complete, immutable catalog snapshot with its
// prebuilt index. Readers hold a Generation and never see a partially
// built one.
type Generation struct {
	Games    []games.Game
	Index    *index.Index
	Num      uint64
	LoadedAt time.Time
}

// Store produces and holds the single active Generation.
type Store struct {
	path    string
	fetcher Fetcher
	cutoff  float64
	log     *slog.Logger

	cur     atomic.Pointer[Generation]
	nextGen atomic.Uint64
	sf      singleflight.Group
}

func NewStore(snapshotPath string, fetcher Fetcher, cutoff float64, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		path:    snapshotPath,
		fetcher: fetcher,
		cutoff:  cutoff,
		log:     log,
	}
}

// snapshot is the persisted flat-file form of the raw catalog.
type snapshot struct {
	Apps      []steam.App `json:"apps"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Load activates a catalog from the local snapshot if one is readable,
// otherwise from upstream. Both paths failing leaves the store in the
// not-ready state; the failure is logged, never returned.
func (s *Store) Load(ctx context.Context) {
	apps, err := s.readSnapshot()
	if err == nil && len(apps) > 0 {
		s.activate(apps)
		s.log.Info("catalog loaded from snapshot", "path", s.path, "count", len(apps))
		return
	}
	if err != nil {
		s.log.Warn("catalog snapshot unusable", "path", s.path, "error", err)
	}

	if err := s.Refresh(ctx); err != nil {
		s.log.Error("initial catalog fetch failed, starting not ready", "error", err)
	}
}

// Refresh fetches the full catalog, builds the new generation and its
// index, swaps it in, and rewrites the snapshot. The previous generation
// stays fully servable until the swap. Concurrent calls coalesce into
// one in-flight fetch that every caller awaits.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.sf.Do("refresh", func() (any, error) {
		apps, err := s.fetcher.AppList(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch app list: %w", err)
		}
		if len(apps) == 0 {
			return nil, fmt.Errorf("fetch app list: empty catalog rejected")
		}

		s.activate(apps)
		s.log.Info("catalog refreshed", "generation", s.cur.Load().Num, "count", len(apps))

		if err := s.writeSnapshot(apps); err != nil {
			// The active generation is fine; only cold-start suffers.
			s.log.Error("catalog snapshot write failed", "path", s.path, "error", err)
		}
		return nil, nil
	})
	return err
}

// RefreshAsync kicks a background refresh. Used by readers that observe
// a missing catalog; the singleflight guard keeps concurrent kicks from
// stacking up fetches.
func (s *Store) RefreshAsync() {
	go func() {
		if err := s.Refresh(context.Background()); err != nil {
			s.log.Warn("lazy catalog refresh failed", "error", err)
		}
	}()
}

// Run refreshes the catalog every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.log.Error("scheduled catalog refresh failed", "error", err)
			}
		}
	}
}

// Current returns the active generation, or nil if none was ever
// activated. It never blocks on network work.
func (s *Store) Current() *Generation {
	return s.cur.Load()
}

// Ready reports whether a non-empty generation is active.
func (s *Store) Ready() bool {
	gen := s.cur.Load()
	return gen != nil && len(gen.Games) > 0
}

// activate normalizes the raw list, builds the index, and swaps the new
// generation in. The swap is the single point where reader-visible state
// changes.
func (s *Store) activate(apps []steam.App) {
	list := make([]games.Game, 0, len(apps))
	for _, a := range apps {
		list = append(list, games.New(a.AppID, a.Name))
	}

	gen := &Generation{
		Games:    list,
		Index:    index.Build(list, s.cutoff),
		Num:      s.nextGen.Add(1),
		LoadedAt: time.Now(),
	}
	s.cur.Store(gen)
}

func (s *Store) readSnapshot() ([]steam.App, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Apps, nil
}

// writeSnapshot persists the raw list via temp file + rename so a crash
// mid-write never corrupts the cold-start source.
func (s *Store) writeSnapshot(apps []steam.App) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.Marshal(snapshot{Apps: apps, UpdatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
