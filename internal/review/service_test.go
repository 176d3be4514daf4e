package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"groupcheck/internal/catalog"
	"groupcheck/internal/history"
	"groupcheck/internal/logging"
	"groupcheck/internal/session"
	"groupcheck/internal/verified"
)

func newTestService(t *testing.T, catalogJSON string, withHistory bool) (*Service, *verified.Store, *history.Store) {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "diagnoses.json")
	if err := os.WriteFile(catalogPath, []byte(catalogJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(catalogPath, catalog.OrderingSource)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	store := verified.NewStore(dir, logging.NewNop())

	var hist *history.Store
	if withHistory {
		hist, err = history.Open(filepath.Join(dir, "history.db"))
		if err != nil {
			t.Fatalf("open history: %v", err)
		}
		t.Cleanup(func() { _ = hist.Close() })
	}

	sessions := session.NewManager(time.Hour)
	return NewService(cat, sessions, store, hist, logging.NewNop()), store, hist
}

const sampleCatalog = `{"flu":"Respiratory","cold":"Respiratory","fracture":"Ortho"}`

func TestEstablishRejectsEmptyIdentity(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog, false)
	if _, err := svc.Establish("", "   "); !errors.Is(err, ErrEmptyIdentity) {
		t.Fatalf("expected ErrEmptyIdentity, got %v", err)
	}
}

func TestCurrentRequiresIdentity(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog, false)
	if _, err := svc.Current("missing"); !errors.Is(err, ErrNotIdentified) {
		t.Fatalf("expected ErrNotIdentified, got %v", err)
	}
}

func TestDecideRequiresIdentity(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog, false)
	err := svc.Decide(context.Background(), "missing", Decision{Accept: true})
	if !errors.Is(err, ErrNotIdentified) {
		t.Fatalf("expected ErrNotIdentified, got %v", err)
	}
}

func TestDecideAdvancesCursorByOne(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog, false)
	token, err := svc.Establish("", "mst3k")
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.Current(token)
	if err != nil {
		t.Fatal(err)
	}
	if view.Progress.Current != 0 || view.Progress.Total != 2 {
		t.Fatalf("unexpected progress: %+v", view.Progress)
	}

	if err := svc.Decide(context.Background(), token, Decision{Accept: false}); err != nil {
		t.Fatal(err)
	}

	view, err = svc.Current(token)
	if err != nil {
		t.Fatal(err)
	}
	if view.Progress.Current != 1 {
		t.Fatalf("cursor should be 1, got %d", view.Progress.Current)
	}
	if view.Group.Name != "Ortho" {
		t.Fatalf("unexpected group: %q", view.Group.Name)
	}
}

func TestRejectNeverWritesStore(t *testing.T) {
	svc, store, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")

	if err := svc.Decide(context.Background(), token, Decision{Accept: false}); err != nil {
		t.Fatal(err)
	}

	groupings, err := store.Load("mst3k")
	if err != nil {
		t.Fatal(err)
	}
	if len(groupings) != 0 {
		t.Fatalf("reject must not create entries, got %v", groupings)
	}
}

func TestAcceptStoresUnderOriginalName(t *testing.T) {
	svc, store, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")

	if err := svc.Decide(context.Background(), token, Decision{Accept: true}); err != nil {
		t.Fatal(err)
	}

	groupings, _ := store.Load("mst3k")
	if !reflect.DeepEqual(groupings["Respiratory"], []string{"flu", "cold"}) {
		t.Fatalf("unexpected groupings: %v", groupings)
	}
}

func TestAcceptWithRenameStoresUnderNewName(t *testing.T) {
	svc, store, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")

	if err := svc.Decide(context.Background(), token, Decision{Accept: true, Rename: "  Upper   Respiratory "}); err != nil {
		t.Fatal(err)
	}

	groupings, _ := store.Load("mst3k")
	if _, exists := groupings["Respiratory"]; exists {
		t.Fatal("original name should be untouched when renamed")
	}
	if !reflect.DeepEqual(groupings["Upper Respiratory"], []string{"flu", "cold"}) {
		t.Fatalf("unexpected groupings: %v", groupings)
	}
}

func TestWhitespaceRenameFallsBackToCatalogName(t *testing.T) {
	svc, store, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")

	if err := svc.Decide(context.Background(), token, Decision{Accept: true, Rename: "   "}); err != nil {
		t.Fatal(err)
	}

	groupings, _ := store.Load("mst3k")
	if _, exists := groupings["Respiratory"]; !exists {
		t.Fatalf("blank rename should use catalog name, got %v", groupings)
	}
}

func TestDecideAfterLastGroupReturnsPassComplete(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")

	ctx := context.Background()
	if err := svc.Decide(ctx, token, Decision{Accept: true}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(ctx, token, Decision{Accept: true}); err != nil {
		t.Fatal(err)
	}

	view, err := svc.Current(token)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Complete {
		t.Fatal("pass should be complete")
	}

	if err := svc.Decide(ctx, token, Decision{Accept: true}); !errors.Is(err, ErrPassComplete) {
		t.Fatalf("expected ErrPassComplete, got %v", err)
	}
}

func TestReestablishResetsPass(t *testing.T) {
	svc, _, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")

	ctx := context.Background()
	_ = svc.Decide(ctx, token, Decision{Accept: true})
	_ = svc.Decide(ctx, token, Decision{Accept: true})

	token, err := svc.Establish(token, "mst3k")
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.Current(token)
	if err != nil {
		t.Fatal(err)
	}
	if view.Complete || view.Progress.Current != 0 {
		t.Fatalf("re-establish should restart the pass: %+v", view)
	}
}

func TestDecisionsRecordedInHistory(t *testing.T) {
	svc, _, hist := newTestService(t, sampleCatalog, true)
	token, _ := svc.Establish("", "mst3k")

	ctx := context.Background()
	if err := svc.Decide(ctx, token, Decision{Accept: true, Rename: "Upper Respiratory"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(ctx, token, Decision{Accept: false}); err != nil {
		t.Fatal(err)
	}

	decisions, err := hist.ListByIdentity(ctx, "mst3k")
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(decisions))
	}
	if decisions[0].FinalName != "Upper Respiratory" || !decisions[0].Accepted || decisions[0].Position != 0 {
		t.Fatalf("unexpected first decision: %+v", decisions[0])
	}
	if decisions[1].GroupName != "Ortho" || decisions[1].Accepted {
		t.Fatalf("unexpected second decision: %+v", decisions[1])
	}
}

func TestClearDataRemovesEverything(t *testing.T) {
	svc, store, hist := newTestService(t, sampleCatalog, true)
	token, _ := svc.Establish("", "mst3k")

	ctx := context.Background()
	if err := svc.Decide(ctx, token, Decision{Accept: true}); err != nil {
		t.Fatal(err)
	}

	if err := svc.ClearData(ctx, token); err != nil {
		t.Fatalf("clear data: %v", err)
	}

	if _, err := svc.Current(token); !errors.Is(err, ErrNotIdentified) {
		t.Fatal("session should be gone after clear")
	}
	groupings, err := store.Load("mst3k")
	if err != nil {
		t.Fatal(err)
	}
	if len(groupings) != 0 {
		t.Fatalf("verified data should be gone, got %v", groupings)
	}
	decisions, err := hist.ListByIdentity(ctx, "mst3k")
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) != 0 {
		t.Fatalf("history should be gone, got %d rows", len(decisions))
	}

	// A fresh identification restarts at cursor 0.
	token, err = svc.Establish("", "mst3k")
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.Current(token)
	if err != nil {
		t.Fatal(err)
	}
	if view.Progress.Current != 0 {
		t.Fatalf("cursor should restart at 0, got %d", view.Progress.Current)
	}
}

func TestEndToEndScenario(t *testing.T) {
	svc, store, _ := newTestService(t, sampleCatalog, false)
	token, _ := svc.Establish("", "mst3k")
	ctx := context.Background()

	if err := svc.Decide(ctx, token, Decision{Accept: true}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(ctx, token, Decision{Accept: true, Rename: "Bone Issues"}); err != nil {
		t.Fatal(err)
	}

	identity, groupings, err := svc.Summary(token)
	if err != nil {
		t.Fatal(err)
	}
	if identity != "mst3k" {
		t.Fatalf("unexpected identity %q", identity)
	}
	want := verified.Groupings{
		"Respiratory": {"flu", "cold"},
		"Bone Issues": {"fracture"},
	}
	if !reflect.DeepEqual(groupings, want) {
		t.Fatalf("got %v, want %v", groupings, want)
	}

	view, err := svc.Current(token)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Complete || view.Progress.Current != view.Progress.Total {
		t.Fatalf("pass should be complete at %d/%d", view.Progress.Current, view.Progress.Total)
	}

	// Unrelated check: direct store read matches the summary.
	direct, err := store.Load("mst3k")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(direct, want) {
		t.Fatalf("store mismatch: %v", direct)
	}
}
