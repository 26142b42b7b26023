// Package testutil provides temp-database helpers for tests that need a
// staged table set.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stagekit/stagekit/internal/db"
)

// TempDB creates a temporary SQLite database with the given production prefix.
func TempDB(t *testing.T, prefix string) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(dbPath, prefix)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// CreateOptionsTable creates an options table under the given table prefix.
func CreateOptionsTable(t *testing.T, database *db.DB, prefix string) {
	t.Helper()

	query := fmt.Sprintf(`
		CREATE TABLE %q (
			option_id INTEGER PRIMARY KEY AUTOINCREMENT,
			option_name TEXT NOT NULL UNIQUE,
			option_value TEXT NOT NULL DEFAULT ''
		)
	`, prefix+"options")
	if _, err := database.Exec(query); err != nil {
		t.Fatalf("failed to create %soptions: %v", prefix, err)
	}
}

// SetOption inserts or replaces an option row under the given table prefix.
func SetOption(t *testing.T, database *db.DB, prefix, name, value string) {
	t.Helper()

	query := fmt.Sprintf(`
		INSERT INTO %q (option_name, option_value) VALUES (?, ?)
		ON CONFLICT(option_name) DO UPDATE SET option_value = excluded.option_value
	`, prefix+"options")
	if _, err := database.Exec(query, name, value); err != nil {
		t.Fatalf("failed to set option %s: %v", name, err)
	}
}

// GetOption reads an option value directly, bypassing any cache.
func GetOption(t *testing.T, database *db.DB, prefix, name string) string {
	t.Helper()

	var value string
	query := fmt.Sprintf("SELECT option_value FROM %q WHERE option_name = ?", prefix+"options")
	if err := database.QueryRow(query, name).Scan(&value); err != nil {
		t.Fatalf("failed to read option %s: %v", name, err)
	}
	return value
}

// CreatePostsTable creates a posts table under the given table prefix.
func CreatePostsTable(t *testing.T, database *db.DB, prefix string) {
	t.Helper()

	query := fmt.Sprintf(`
		CREATE TABLE %q (
			ID INTEGER PRIMARY KEY AUTOINCREMENT,
			post_author INTEGER NOT NULL DEFAULT 0,
			post_title TEXT NOT NULL DEFAULT '',
			post_content TEXT NOT NULL DEFAULT ''
		)
	`, prefix+"posts")
	if _, err := database.Exec(query); err != nil {
		t.Fatalf("failed to create %sposts: %v", prefix, err)
	}
}

// CreateLinksTable creates a links table under the given table prefix.
func CreateLinksTable(t *testing.T, database *db.DB, prefix string) {
	t.Helper()

	query := fmt.Sprintf(`
		CREATE TABLE %q (
			link_id INTEGER PRIMARY KEY AUTOINCREMENT,
			link_url TEXT NOT NULL DEFAULT '',
			link_owner INTEGER NOT NULL DEFAULT 0
		)
	`, prefix+"links")
	if _, err := database.Exec(query); err != nil {
		t.Fatalf("failed to create %slinks: %v", prefix, err)
	}
}

// CreateUsersTable creates a users table under the given table prefix.
func CreateUsersTable(t *testing.T, database *db.DB, prefix string) {
	t.Helper()

	query := fmt.Sprintf(`
		CREATE TABLE %q (
			ID INTEGER PRIMARY KEY AUTOINCREMENT,
			user_login TEXT NOT NULL DEFAULT ''
		)
	`, prefix+"users")
	if _, err := database.Exec(query); err != nil {
		t.Fatalf("failed to create %susers: %v", prefix, err)
	}
}

// TableNames returns all table names carrying the prefix, failing the test on
// error.
func TableNames(t *testing.T, database *db.DB, prefix string) []string {
	t.Helper()

	tables, err := database.Tables(prefix)
	if err != nil {
		t.Fatalf("failed to list tables: %v", err)
	}
	return tables
}
