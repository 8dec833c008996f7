package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/alexander-kolodka/crestic-docs/internal/domain"
	"github.com/alexander-kolodka/crestic-docs/internal/index"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
	redisstore "github.com/alexander-kolodka/crestic-docs/internal/store/redis"
	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redisstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisstore.NewStore(client)
}

func writeOverrides(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write overrides: %v", err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestOverridesReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeOverrides(t, path, "logo: Crestic Fork\nproject:\n  link: https://example.com/fork\n")

	memIndex := index.NewMemoryIndex(theme.Default())
	initial := memIndex.Provider()
	r := NewOverridesReloader(path, nil, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Reload(context.Background(), TriggerManual); err != nil {
		t.Fatalf("Reload() = %v", err)
	}

	cfg := memIndex.Provider().Config()
	if cfg.Logo.Source != "Crestic Fork" {
		t.Errorf("Logo = %q, want Crestic Fork", cfg.Logo.Source)
	}
	if cfg.Project.Link != "https://example.com/fork" {
		t.Errorf("Project.Link = %q", cfg.Project.Link)
	}
	if initial.Config().Logo.Source != "Crestic" {
		t.Error("a reload must not change records of the previous provider")
	}
}

func TestOverridesReloader_KeepsPreviousOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeOverrides(t, path, "logo: Crestic Fork\n")

	memIndex := index.NewMemoryIndex(theme.Default())
	r := NewOverridesReloader(path, nil, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))
	if err := r.Reload(context.Background(), TriggerStart); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	good := memIndex.Provider()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "logo: [unterminated\n"},
		{name: "unknown key", content: "colour: red\n"},
		{name: "invalid value", content: "seo:\n  titleTemplate: no slot\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeOverrides(t, path, tt.content)
			if err := r.Reload(context.Background(), TriggerManual); err == nil {
				t.Fatal("Reload() should fail")
			}
			if memIndex.Provider() != good {
				t.Error("the previous provider should keep serving")
			}
		})
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background(), TriggerManual); err == nil {
		t.Error("Reload() should fail on a missing file")
	}
	if memIndex.Provider() != good {
		t.Error("the previous provider should keep serving")
	}
}

func TestOverridesReloader_UnchangedKeepsProvider(t *testing.T) {
	memIndex := index.NewMemoryIndex(theme.Default())
	initial := memIndex.Provider()
	r := NewOverridesReloader("", nil, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Reload(context.Background(), TriggerManual); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if memIndex.Provider() != initial {
		t.Error("an unchanged revision should not swap the provider")
	}
	if !memIndex.GetLastReload().IsZero() {
		t.Error("an unchanged revision should not count as a reload")
	}
}

func TestOverridesReloader_FlushesThemeCache(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()
	memIndex := index.NewMemoryIndex(theme.Default())

	rev := memIndex.Provider().Revision()
	if err := store.CacheTheme(ctx, "json", 2026, rev, []byte("{}"), time.Hour); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeOverrides(t, path, "seo:\n  defaultTitle: Crestic Docs\n")
	r := NewOverridesReloader(path, store, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Reload(ctx, TriggerManual); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if mr.Exists(redisstore.ThemeKey("json", 2026, rev)) {
		t.Error("renderings of the previous revision should be flushed")
	}
}

func TestOverridesReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeOverrides(t, path, "logo: One\n")

	memIndex := index.NewMemoryIndex(theme.Default())
	trigger := make(chan struct{}, 1)
	r := NewOverridesReloader(path, nil, memIndex, logger.NewNop(), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer r.Stop()

	if got := memIndex.Provider().Config().Logo.Source; got != "One" {
		t.Fatalf("Start() should load immediately, logo = %q", got)
	}

	writeOverrides(t, path, "logo: Two\n")
	trigger <- struct{}{}

	if !waitFor(t, 2*time.Second, func() bool {
		return memIndex.Provider().Config().Logo.Source == "Two"
	}) {
		t.Error("manual trigger should reload the overrides")
	}
}

func TestOverridesReloader_WatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	writeOverrides(t, path, "logo: Before\n")

	memIndex := index.NewMemoryIndex(theme.Default())
	r := NewOverridesReloader(path, nil, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))
	r.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer r.Stop()

	writeOverrides(t, path, "logo: After\n")

	if !waitFor(t, 5*time.Second, func() bool {
		return memIndex.Provider().Config().Logo.Source == "After"
	}) {
		t.Error("a file change should reload the overrides")
	}
}

func TestOverridesReloader_StartFailsOnInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	memIndex := index.NewMemoryIndex(theme.Default())
	r := NewOverridesReloader(path, nil, memIndex, logger.NewNop(), time.Hour, make(chan struct{}, 1))

	if err := r.Start(context.Background()); err == nil {
		r.Stop()
		t.Fatal("Start() should fail when the initial load fails")
	}
}

func TestRedisSyncer_Sync(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for _, page := range []string{"/install", "/install", "/config"} {
		if err := store.RecordFeedback(ctx, page, "", at); err != nil {
			t.Fatal(err)
		}
	}

	memIndex := index.NewMemoryIndex(theme.Default())
	if err := NewRedisSyncer(store, memIndex, logger.NewNop()).Sync(ctx); err != nil {
		t.Fatalf("Sync() = %v", err)
	}

	f, ok := memIndex.GetFeedback("/install")
	if !ok || f.Count != 2 {
		t.Errorf("synced /install = %+v, %v", f, ok)
	}
	if memIndex.FeedbackCount() != 2 {
		t.Errorf("FeedbackCount() = %d, want 2", memIndex.FeedbackCount())
	}
}

func TestRedisSyncer_SyncEmptyKeepsMemory(t *testing.T) {
	_, store := newTestStore(t)
	memIndex := index.NewMemoryIndex(theme.Default())
	memIndex.RecordFeedback("/local", "", time.Now())

	if err := NewRedisSyncer(store, memIndex, logger.NewNop()).Sync(context.Background()); err != nil {
		t.Fatalf("Sync() = %v", err)
	}
	if _, ok := memIndex.GetFeedback("/local"); !ok {
		t.Error("an empty redis should not wipe memory")
	}
}

func TestFeedbackPruner_Prune(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	memIndex := index.NewMemoryIndex(theme.Default())
	records := []*domain.Feedback{
		{Page: "/fresh", Count: 1, LastSeen: now.Add(-time.Hour)},
		{Page: "/recent", Count: 4, LastSeen: now.Add(-10 * 24 * time.Hour)}, // 10 days ago
		{Page: "/stale", Count: 9, LastSeen: now.Add(-35 * 24 * time.Hour)},  // 35 days ago
	}
	memIndex.UpdateFeedback(records)
	for _, f := range records {
		if err := store.RecordFeedback(ctx, f.Page, "", f.LastSeen); err != nil {
			t.Fatal(err)
		}
	}

	// Create pruner with 30 day threshold
	fp := NewFeedbackPruner(store, memIndex, logger.NewNop(), 24*time.Hour, 30*24*time.Hour)
	fp.now = func() time.Time { return now }

	if deleted := fp.Prune(ctx); deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}

	if _, ok := memIndex.GetFeedback("/fresh"); !ok {
		t.Error("fresh feedback was incorrectly removed")
	}
	if _, ok := memIndex.GetFeedback("/recent"); !ok {
		t.Error("recent feedback was incorrectly removed")
	}
	if _, ok := memIndex.GetFeedback("/stale"); ok {
		t.Error("stale feedback was not removed")
	}
	if mr.Exists(redisstore.FeedbackKey("/stale")) {
		t.Error("stale feedback was not removed from redis")
	}
	if !mr.Exists(redisstore.FeedbackKey("/recent")) {
		t.Error("recent feedback was removed from redis")
	}
}

func TestFeedbackPruner_DefaultThreshold(t *testing.T) {
	fp := NewFeedbackPruner(nil, index.NewMemoryIndex(theme.Default()), logger.NewNop(), time.Hour, 0)
	if fp.threshold != DefaultFeedbackTTL {
		t.Errorf("threshold = %v, want %v", fp.threshold, DefaultFeedbackTTL)
	}
	// Without a store pruning is memory only
	if deleted := fp.Prune(context.Background()); deleted != 0 {
		t.Errorf("Prune() on empty index = %d", deleted)
	}
	fp.Stop()
	fp.Stop()
}
