package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "history.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "history.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestNew_UnusablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(filepath.Join(blocker, "history.db")); err == nil {
		t.Error("expected error when the parent path is a file")
	}
}

func TestNew_AppliesPragmas(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var mode string
	if err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.QueryRowContext(context.Background(), "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatal(err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestDSN(t *testing.T) {
	got := dsn("/tmp/history.db")
	if !strings.HasPrefix(got, "file:/tmp/history.db?") {
		t.Errorf("dsn = %q, want file URI", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(pragmas) {
		t.Errorf("dsn has %d pragmas, want %d", n, len(pragmas))
	}
	if !strings.Contains(got, "_txlock=immediate") {
		t.Errorf("dsn = %q, want immediate transactions", got)
	}
}

func TestSchema_TableExists(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var name string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", "usage_snapshots").Scan(&name)
	if err != nil {
		t.Errorf("Table usage_snapshots does not exist: %v", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion = %d, want %d", version, len(migrations))
	}
}

func TestMigrate_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := first.ExecContext(context.Background(),
		"INSERT INTO usage_snapshots (timestamp) VALUES ('2025-03-01 12:00:00')"); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	count, err := second.CountSnapshots(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("reopening should keep data, got %d rows", count)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Verify database is closed by trying to query
	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
