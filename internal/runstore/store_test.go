package runstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.BeginRun(ctx, "run-1", "individual", "/submissions"); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := store.RecordOutcome(ctx, FileOutcome{
		RunID: "run-1", Filename: "a.pdf", SheetRow: 4, Method: "numeric_id", Status: StatusUploaded,
	}); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if err := store.RecordOutcome(ctx, FileOutcome{
		RunID: "run-1", Filename: "b.pdf", Method: "none", Status: StatusUnmatched,
	}); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if err := store.FinishRun(ctx, Run{ID: "run-1", TotalFiles: 2, Uploaded: 1, Unmatched: 1}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.Mode != "individual" || run.TotalFiles != 2 || run.Uploaded != 1 {
		t.Fatalf("run = %+v", run)
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		t.Fatalf("timestamps not recorded: %+v", run)
	}

	outcomes, err := store.Outcomes(ctx, "run-1")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[0].Filename != "a.pdf" || outcomes[0].SheetRow != 4 || outcomes[0].Status != StatusUploaded {
		t.Fatalf("first outcome = %+v", outcomes[0])
	}
	if outcomes[1].SheetRow != 0 || outcomes[1].Error != "" {
		t.Fatalf("second outcome = %+v", outcomes[1])
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := openStore(t)
	if err := store.FinishRun(context.Background(), Run{ID: "ghost"}); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestListRunsOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.BeginRun(ctx, id, "group", "/f"); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not applied: got %d runs", len(runs))
	}
}

func TestSchemaReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.BeginRun(context.Background(), "run-1", "individual", "/f"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("run history lost on reopen: %d runs", len(runs))
	}
}
