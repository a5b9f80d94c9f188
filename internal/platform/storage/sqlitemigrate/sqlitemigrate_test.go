package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyMigrationsRunsOnce(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"0001_songs.sql": &fstest.MapFile{Data: []byte(
			"CREATE TABLE songs (song_id TEXT PRIMARY KEY, doc TEXT NOT NULL);",
		)},
	}

	if err := ApplyMigrations(db, migrations, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// A second pass must be a no-op rather than failing on existing tables.
	if err := ApplyMigrations(db, migrations, "."); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("applied migrations = %d, want 1", count)
	}
	if _, err := db.Exec("INSERT INTO songs (song_id, doc) VALUES ('s1', '{}')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
}

func TestApplyMigrationsLexicalOrder(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"0002_add_title.sql": &fstest.MapFile{Data: []byte(
			"ALTER TABLE songs ADD COLUMN title TEXT;",
		)},
		"0001_songs.sql": &fstest.MapFile{Data: []byte(
			"CREATE TABLE songs (song_id TEXT PRIMARY KEY);",
		)},
	}

	if err := ApplyMigrations(db, migrations, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := db.Exec("INSERT INTO songs (song_id, title) VALUES ('s1', 'Autumn Leaves')"); err != nil {
		t.Fatalf("insert with migrated column: %v", err)
	}
}

func TestApplyMigrationsNilDB(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}, "."); err == nil {
		t.Fatal("expected error for nil db")
	}
}
