package runs

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.Create(ctx, "/media/clip.mkv")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if run.ID == "" {
		t.Error("run id is empty")
	}
	if run.Status != StatusPending {
		t.Errorf("status = %s, want %s", run.Status, StatusPending)
	}
	if run.SourcePath != "/media/clip.mkv" {
		t.Errorf("source path = %q", run.SourcePath)
	}
	if run.CreatedAt.IsZero() {
		t.Error("created_at not recorded")
	}

	fetched, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil || fetched.ID != run.ID {
		t.Fatalf("fetched = %+v, want id %s", fetched, run.ID)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := openTestStore(t)
	run, err := store.GetByID(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if run != nil {
		t.Errorf("run = %+v, want nil", run)
	}
}

func TestStatusProgression(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.Create(ctx, "/media/clip.mkv")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, status := range []Status{StatusNormalizing, StatusTranscribing, StatusDetecting, StatusSynchronizing, StatusRendering} {
		if err := store.SetStatus(ctx, run.ID, status); err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
	}

	if err := store.Complete(ctx, run.ID, "/out/clip_described.mp4", 7); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	final, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", final.Status, StatusCompleted)
	}
	if final.OutputPath != "/out/clip_described.mp4" {
		t.Errorf("output path = %q", final.OutputPath)
	}
	if final.NarrationCount != 7 {
		t.Errorf("narration count = %d, want 7", final.NarrationCount)
	}
	if !final.Status.Terminal() {
		t.Error("completed status should be terminal")
	}
}

func TestFailRecordsMessage(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.Create(ctx, "/media/clip.mkv")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Fail(ctx, run.ID, "  synthesis failed after 3 attempts  "); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	failed, err := store.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if failed.Status != StatusFailed {
		t.Errorf("status = %s, want %s", failed.Status, StatusFailed)
	}
	if failed.ErrorMessage != "synthesis failed after 3 attempts" {
		t.Errorf("error message = %q", failed.ErrorMessage)
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	store := openTestStore(t)
	run, err := store.Create(context.Background(), "/media/clip.mkv")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.SetStatus(context.Background(), run.ID, Status("ripping")); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestSetStatusMissingRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.SetStatus(context.Background(), "missing", StatusRendering); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestListFiltersAndLimits(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.Create(ctx, "/media/clip.mkv")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, run.ID)
	}
	if err := store.Fail(ctx, ids[1], "boom"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	failed, err := store.List(ctx, []Status{StatusFailed}, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ID != ids[1] {
		t.Errorf("failed list = %+v, want only %s", failed, ids[1])
	}

	all, err := store.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	limited, err := store.List(ctx, nil, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}
