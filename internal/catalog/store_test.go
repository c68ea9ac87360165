package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamseek/steamseek/internal/steam"
)

type fakeFetcher struct {
	mu    sync.Mutex
	apps  []steam.App
	err   error
	calls atomic.Int32
	block chan struct{} // when set, AppList waits for it
}

func (f *fakeFetcher) AppList(ctx context.Context) ([]steam.App, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.apps, nil
}

func (f *fakeFetcher) set(apps []steam.App, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps, f.err = apps, err
}

func snapshotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "applist.json")
}

func writeSnapshotFile(t *testing.T, path string, apps []steam.App) {
	t.Helper()
	data, err := json.Marshal(snapshot{Apps: apps, UpdatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

var sampleApps = []steam.App{
	{AppID: 570, Name: "Dota 2"},
	{AppID: 440, Name: "Team Fortress 2"},
	{AppID: 730, Name: "Counter-Strike 2"},
}

func TestLoadFromSnapshot(t *testing.T) {
	path := snapshotPath(t)
	writeSnapshotFile(t, path, sampleApps)

	f := &fakeFetcher{}
	s := NewStore(path, f, 0, nil)
	s.Load(context.Background())

	require.True(t, s.Ready())
	gen := s.Current()
	require.NotNil(t, gen)
	assert.Len(t, gen.Games, 3)
	assert.Equal(t, "dota 2", gen.Games[0].Normalized)
	assert.Equal(t, uint64(1), gen.Num)
	assert.Equal(t, int32(0), f.calls.Load(), "snapshot hit skips the network")
}

func TestLoadFallsBackToFetchOnCorruptSnapshot(t *testing.T) {
	path := snapshotPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := &fakeFetcher{apps: sampleApps}
	s := NewStore(path, f, 0, nil)
	s.Load(context.Background())

	require.True(t, s.Ready())
	assert.Equal(t, int32(1), f.calls.Load())

	// The fetched list replaced the corrupt snapshot on disk.
	f2 := &fakeFetcher{}
	s2 := NewStore(path, f2, 0, nil)
	s2.Load(context.Background())
	assert.True(t, s2.Ready())
	assert.Equal(t, int32(0), f2.calls.Load())
}

func TestLoadFailsSilentlyIntoNotReady(t *testing.T) {
	f := &fakeFetcher{err: errors.New("network down")}
	s := NewStore(snapshotPath(t), f, 0, nil)
	s.Load(context.Background())

	assert.False(t, s.Ready())
	assert.Nil(t, s.Current())
}

func TestRefreshIncrementsGeneration(t *testing.T) {
	f := &fakeFetcher{apps: sampleApps}
	s := NewStore(snapshotPath(t), f, 0, nil)

	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.Refresh(context.Background()))

	gen := s.Current()
	require.NotNil(t, gen)
	assert.Equal(t, uint64(2), gen.Num)
}

func TestRefreshRejectsEmptyCatalog(t *testing.T) {
	f := &fakeFetcher{apps: sampleApps}
	s := NewStore(snapshotPath(t), f, 0, nil)
	require.NoError(t, s.Refresh(context.Background()))
	old := s.Current()

	f.set(nil, nil)
	err := s.Refresh(context.Background())
	assert.Error(t, err)
	assert.Same(t, old, s.Current(), "previous generation stays active")
}

func TestRefreshFailureKeepsOldGeneration(t *testing.T) {
	f := &fakeFetcher{apps: sampleApps}
	s := NewStore(snapshotPath(t), f, 0, nil)
	require.NoError(t, s.Refresh(context.Background()))
	old := s.Current()

	f.set(nil, errors.New("upstream 500"))
	err := s.Refresh(context.Background())
	assert.Error(t, err)
	assert.Same(t, old, s.Current())
	assert.True(t, s.Ready())
}

func TestConcurrentRefreshesCoalesce(t *testing.T) {
	f := &fakeFetcher{apps: sampleApps, block: make(chan struct{})}
	s := NewStore(snapshotPath(t), f, 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Refresh(context.Background()))
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(f.block)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load(), "one in-flight fetch shared by all callers")
}

func TestGenerationIndexBuiltBeforeSwap(t *testing.T) {
	f := &fakeFetcher{apps: sampleApps}
	s := NewStore(snapshotPath(t), f, 0, nil)
	require.NoError(t, s.Refresh(context.Background()))

	gen := s.Current()
	require.NotNil(t, gen.Index)
	assert.Equal(t, 3, gen.Index.Len())

	cands := gen.Index.Search("dota", 10)
	require.NotEmpty(t, cands)
	assert.Equal(t, 570, cands[0].Game.ID)
}
