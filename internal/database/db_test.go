package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gmailtriage-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if db == nil {
		t.Fatal("expected non-nil database")
	}

	for _, table := range []string{"important_domains", "bulk_operations"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}
		if count != 1 {
			t.Errorf("expected %s table to exist", table)
		}
	}

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triage.db")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveImportantDomain(ctx, "work.com"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	names, err := db.ImportantDomainNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "work.com" {
		t.Errorf("domains after reopen = %v", names)
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}
}

func TestOpen_UpgradesUnversionedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.db")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveImportantDomain(ctx, "work.com"); err != nil {
		t.Fatal(err)
	}
	// a store created before versioning has tables but user_version 0
	if _, err := db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("Open() on unversioned store: %v", err)
	}
	defer db.Close()

	if v, _ := db.SchemaVersion(ctx); v != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", v, len(migrations))
	}
	names, err := db.ImportantDomainNames(ctx)
	if err != nil || len(names) != 1 {
		t.Errorf("domains kept = %v, %v", names, err)
	}
}

func TestImportantDomains(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, d := range []string{"work.com", " Bank.COM ", "work.com"} {
		if err := db.SaveImportantDomain(ctx, d); err != nil {
			t.Fatalf("SaveImportantDomain(%q) failed: %v", d, err)
		}
	}

	domains, err := db.ListImportantDomains(ctx)
	if err != nil {
		t.Fatalf("ListImportantDomains failed: %v", err)
	}
	if len(domains) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(domains))
	}
	seen := map[string]bool{}
	for _, d := range domains {
		seen[d.Domain] = true
		if d.CreatedAt.IsZero() {
			t.Errorf("%s has no created_at", d.Domain)
		}
	}
	if !seen["work.com"] || !seen["bank.com"] {
		t.Errorf("unexpected domains: %v", domains)
	}

	if err := db.SaveImportantDomain(ctx, "  "); err == nil {
		t.Error("expected error for empty domain")
	}
}

func TestBulkOperations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	results := []email.BulkResult{
		{Action: "delete", Requested: 3, Succeeded: 2, Failed: 1, FailedIDs: []string{"x"}},
		{Action: "mark_read", Requested: 2, Succeeded: 2},
		{Action: "delete", Requested: 1, Succeeded: 1, FailedIDs: []string{}},
	}

	var first *BulkOperation
	for i, r := range results {
		op, err := db.CreateBulkOperation(ctx, r)
		if err != nil {
			t.Fatalf("CreateBulkOperation failed: %v", err)
		}
		if op.ID == "" {
			t.Error("expected ID to be set after create")
		}
		if i == 0 {
			first = op
		}
	}

	// Read
	fetched, err := db.GetBulkOperation(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetBulkOperation failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected operation to be found")
	}
	if fetched.Failed != 1 || len(fetched.FailedIDs) != 1 || fetched.FailedIDs[0] != "x" {
		t.Errorf("unexpected operation: %+v", fetched)
	}
	if got := fetched.Result(); got.Succeeded+got.Failed != got.Requested {
		t.Errorf("Result() count law broken: %+v", got)
	}

	missing, err := db.GetBulkOperation(ctx, "does-not-exist")
	if err != nil || missing != nil {
		t.Errorf("GetBulkOperation(missing) = %v, %v; want nil, nil", missing, err)
	}

	// List
	all, err := db.ListBulkOperations(ctx, HistoryOptions{})
	if err != nil {
		t.Fatalf("ListBulkOperations failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(all))
	}
	if all[0].Action != "delete" || all[0].Requested != 1 {
		t.Errorf("expected newest first, got %+v", all[0])
	}
	if all[1].FailedIDs == nil {
		t.Error("FailedIDs should decode to an empty slice, not nil")
	}

	deletes, err := db.ListBulkOperations(ctx, HistoryOptions{Action: "delete", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(deletes) != 1 || deletes[0].Action != "delete" {
		t.Errorf("filtered list = %+v", deletes)
	}
}

func TestRecordBulkOperation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := db.RecordBulkOperation(ctx, email.BulkResult{Action: "delete", Requested: 1, Failed: 1, FailedIDs: []string{"m1"}}); err != nil {
		t.Fatal(err)
	}

	ops, err := db.ListBulkOperations(ctx, HistoryOptions{Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(ops))
	}
}
