package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pathkeeper/backend/internal/infrastructure/logging"
	"github.com/pathkeeper/backend/internal/shared/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(Options{Enabled: true}, logging.NewNop())
	t.Cleanup(m.Destroy)
	return m
}

func addTestPath(t *testing.T, m *Manager, id, purpose string) types.StoragePathConfig {
	t.Helper()
	cfg := types.StoragePathConfig{
		ID:      id,
		Name:    "Path " + id,
		Path:    t.TempDir(),
		Kind:    types.KindLocal,
		Enabled: true,
		Purpose: purpose,
	}
	if res := m.AddPath(context.Background(), cfg); !res.Success {
		t.Fatalf("AddPath(%s) failed: %v", id, res.Errors)
	}
	return cfg
}

// checkKeySets asserts the registry/status key-set invariant
func checkKeySets(t *testing.T, m *Manager) {
	t.Helper()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.paths) != len(m.statuses) {
		t.Fatalf("key sets diverged: %d configs, %d statuses", len(m.paths), len(m.statuses))
	}
	for id := range m.paths {
		if _, ok := m.statuses[id]; !ok {
			t.Fatalf("config %s has no status record", id)
		}
	}
}

func TestAddPathProbesImmediately(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")

	status, ok := m.GetStatus("p1")
	if !ok {
		t.Fatal("status missing right after add")
	}
	if status.Status != types.StateHealthy {
		t.Errorf("expected healthy temp dir, got %s", status.Status)
	}
	checkKeySets(t, m)
}

func TestAddPathRejectsInvalid(t *testing.T) {
	m := newTestManager(t)
	res := m.AddPath(context.Background(), types.StoragePathConfig{ID: "p1"})
	if res.Success {
		t.Fatal("invalid config accepted")
	}
	if len(m.ListPaths()) != 0 {
		t.Error("registry mutated by failed add")
	}
	checkKeySets(t, m)
}

func TestAddPathRejectsDuplicateID(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")

	dup := types.StoragePathConfig{
		ID: "p1", Name: "Other", Path: t.TempDir(), Kind: types.KindLocal,
	}
	res := m.AddPath(context.Background(), dup)
	if res.Success {
		t.Fatal("duplicate id accepted")
	}
	if entries := m.ListPaths(); len(entries) != 1 || entries[0].Name != "Path p1" {
		t.Errorf("registry changed by rejected duplicate: %+v", entries)
	}
	checkKeySets(t, m)
}

func TestUpdatePathUnknownID(t *testing.T) {
	m := newTestManager(t)
	name := "renamed"
	if res := m.UpdatePath(context.Background(), "ghost", types.PathUpdate{Name: &name}); res.Success {
		t.Fatal("update of unknown id succeeded")
	}
}

func TestUpdatePathShallowMerge(t *testing.T) {
	m := newTestManager(t)
	cfg := addTestPath(t, m, "p1", "backup")
	before, _ := m.GetStatus("p1")

	name := "renamed"
	if res := m.UpdatePath(context.Background(), "p1", types.PathUpdate{Name: &name}); !res.Success {
		t.Fatalf("update failed: %v", res.Errors)
	}

	entry, _ := m.GetPath("p1")
	if entry.Name != "renamed" {
		t.Errorf("name not updated: %s", entry.Name)
	}
	if entry.Path != cfg.Path || entry.Purpose != "backup" {
		t.Error("untouched fields were modified")
	}
	// Metadata-only edits must not trigger a re-probe.
	after, _ := m.GetStatus("p1")
	if !after.LastChecked.Equal(before.LastChecked) {
		t.Error("metadata update re-probed the path")
	}
}

func TestUpdatePathChangeTriggersReprobe(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")

	bad := "/this/path/does/not/exist"
	if res := m.UpdatePath(context.Background(), "p1", types.PathUpdate{Path: &bad}); !res.Success {
		t.Fatalf("update failed: %v", res.Errors)
	}

	status, _ := m.GetStatus("p1")
	if status.Status != types.StateUnavailable {
		t.Errorf("expected reprobe to mark path unavailable, got %s", status.Status)
	}
}

func TestUpdatePathRejectsInvalidMerge(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")

	rel := "not/absolute"
	if res := m.UpdatePath(context.Background(), "p1", types.PathUpdate{Path: &rel}); res.Success {
		t.Fatal("relative path accepted by update")
	}
	entry, _ := m.GetPath("p1")
	if entry.Path == rel {
		t.Error("invalid update was applied")
	}
}

func TestRemovePath(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")
	addTestPath(t, m, "p2", "media")

	if res := m.RemovePath("p1"); !res.Success {
		t.Fatalf("remove failed: %v", res.Errors)
	}
	if _, ok := m.GetStatus("p1"); ok {
		t.Error("status survived removal")
	}
	if _, ok := m.GetPath("p1"); ok {
		t.Error("config survived removal")
	}
	if len(m.ListPaths()) != 1 {
		t.Error("wrong registry size after removal")
	}
	checkKeySets(t, m)

	if res := m.RemovePath("p1"); res.Success {
		t.Fatal("second removal succeeded")
	}
}

func TestListPathsInsertionOrder(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "c", "x")
	addTestPath(t, m, "a", "x")
	addTestPath(t, m, "b", "x")

	entries := m.ListPaths()
	got := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestCheckAllRefreshesEveryPath(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")
	cfg := addTestPath(t, m, "p2", "media")

	// Disabled paths are still swept.
	enabled := false
	m.UpdatePath(context.Background(), cfg.ID, types.PathUpdate{Enabled: &enabled})

	results := m.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for id, status := range results {
		if status.Status != types.StateHealthy {
			t.Errorf("path %s: expected healthy, got %s", id, status.Status)
		}
	}
}

func TestPerPathFailureDoesNotAbortSweep(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "good", "backup")

	m.mu.Lock()
	cfg := &types.StoragePathConfig{
		ID: "bad", Name: "Bad", Path: "/does/not/exist",
		Kind: types.KindNetworkShare, Enabled: true, Purpose: "backup",
	}
	m.paths["bad"] = cfg
	m.statuses["bad"] = &types.HealthStatus{Status: types.StateHealthy}
	m.order = append(m.order, "bad")
	m.mu.Unlock()

	results := m.CheckAll(context.Background())
	if results["bad"].Status != types.StateUnavailable {
		t.Errorf("expected bad path unavailable, got %s", results["bad"].Status)
	}
	if results["good"].Status != types.StateHealthy {
		t.Errorf("good path poisoned by bad one: %s", results["good"].Status)
	}
}

func TestDestroyClearsEverything(t *testing.T) {
	m := NewManager(Options{Enabled: true, HealthCheckInterval: 10 * time.Millisecond}, logging.NewNop())
	addTestPath(t, m, "p1", "backup")
	m.Start()

	m.Destroy()

	if len(m.ListPaths()) != 0 {
		t.Error("registry not cleared")
	}
	if _, ok := m.GetStatus("p1"); ok {
		t.Error("status map not cleared")
	}
	if res := m.AddPath(context.Background(), types.StoragePathConfig{
		ID: "p2", Name: "x", Path: t.TempDir(), Kind: types.KindLocal,
	}); res.Success {
		t.Error("add succeeded on destroyed manager")
	}
}

func TestDestroyStopsAutomaticProbes(t *testing.T) {
	m := NewManager(Options{Enabled: true, HealthCheckInterval: 5 * time.Millisecond}, logging.NewNop())

	var probes atomic.Int64
	m.prober.check = func(path string) types.HealthStatus {
		probes.Add(1)
		return checkPath(path)
	}

	addTestPath(t, m, "p1", "backup")
	m.Start()

	// The add itself probes once; wait until a timer-driven sweep ran.
	deadline := time.Now().Add(2 * time.Second)
	for probes.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("periodic sweep never fired")
		}
		time.Sleep(time.Millisecond)
	}

	m.Destroy()
	after := probes.Load()
	time.Sleep(50 * time.Millisecond)
	if got := probes.Load(); got != after {
		t.Errorf("probes continued after destroy: %d -> %d", after, got)
	}
}

func TestStaleProbeResultDiscardedAfterDestroy(t *testing.T) {
	m := NewManager(Options{Enabled: true}, logging.NewNop())
	addTestPath(t, m, "p1", "backup")

	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	m.Destroy()
	m.storeStatus("p1", gen, types.HealthStatus{Status: types.StateHealthy})

	if _, ok := m.GetStatus("p1"); ok {
		t.Error("stale probe result resurrected a destroyed entry")
	}
}

func TestHealthEventEmittedOnStateChange(t *testing.T) {
	var events []types.HealthEvent
	m := NewManager(Options{Enabled: true}, logging.NewNop()).
		WithEventSink(func(e types.HealthEvent) { events = append(events, e) })
	t.Cleanup(m.Destroy)

	addTestPath(t, m, "p1", "backup")
	if len(events) != 1 {
		t.Fatalf("expected registration event, got %d", len(events))
	}

	bad := "/does/not/exist"
	m.UpdatePath(context.Background(), "p1", types.PathUpdate{Path: &bad})
	if len(events) != 2 {
		t.Fatalf("expected state-change event, got %d events", len(events))
	}
	if events[1].Previous != types.StateHealthy || events[1].Health.Status != types.StateUnavailable {
		t.Errorf("unexpected event: %+v", events[1])
	}

	// A probe that confirms the current state is not an event.
	m.CheckAll(context.Background())
	if len(events) != 2 {
		t.Errorf("confirming probe emitted an event: %d", len(events))
	}
}

func TestStatsSummary(t *testing.T) {
	m := newTestManager(t)
	addTestPath(t, m, "p1", "backup")
	addTestPath(t, m, "p2", "media")

	m.mu.Lock()
	m.statuses["p2"].Status = types.StateUnavailable
	m.mu.Unlock()

	s := m.Stats()
	if s.TotalPaths != 2 || s.Healthy != 1 || s.Unavailable != 1 || s.Enabled != 2 {
		t.Errorf("unexpected summary: %+v", s)
	}
}
