package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	decisions := []Decision{
		{Identity: "mst3k", Position: 0, GroupName: "Respiratory", FinalName: "Respiratory", Accepted: true},
		{Identity: "mst3k", Position: 1, GroupName: "Ortho", FinalName: "Bone Issues", Accepted: true},
		{Identity: "mst3k", Position: 2, GroupName: "Neuro", FinalName: "Neuro", Accepted: false},
		{Identity: "other", Position: 0, GroupName: "Respiratory", FinalName: "Respiratory", Accepted: false},
	}
	for _, d := range decisions {
		if err := store.Record(ctx, d); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := store.ListByIdentity(ctx, "mst3k")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 decisions, got %d", len(got))
	}
	if got[1].FinalName != "Bone Issues" || !got[1].Accepted {
		t.Fatalf("unexpected decision: %+v", got[1])
	}
	if got[0].DecidedAt.IsZero() {
		t.Fatal("decided_at should default to now")
	}
}

func TestStatsByIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := store.Record(ctx, Decision{Identity: "mst3k", Position: i, GroupName: "G", FinalName: "G", Accepted: i%2 == 0}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.StatsByIdentity(ctx, "mst3k")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Accepted != 2 || stats.Rejected != 2 || stats.Total() != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestClearIdentity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, Decision{Identity: "mst3k", GroupName: "G", FinalName: "G", Accepted: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, Decision{Identity: "other", GroupName: "G", FinalName: "G", Accepted: true}); err != nil {
		t.Fatal(err)
	}

	removed, err := store.ClearIdentity(ctx, "mst3k")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := store.ListByIdentity(ctx, "other")
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Fatalf("other identity's decisions should survive, got %d", len(remaining))
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Record(ctx, Decision{Identity: "mst3k", GroupName: "G", FinalName: "G", Accepted: true, DecidedAt: when}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ListByIdentity(ctx, "mst3k")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].DecidedAt.Equal(when) {
		t.Fatalf("unexpected decisions after reopen: %+v", got)
	}
}
