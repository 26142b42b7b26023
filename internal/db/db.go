// Package db wraps the SQLite connection shared by the production and staging
// table sets. Both sets live in the same database file, distinguished only by
// table-name prefix.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
	path   string
	prefix string
}

// Open opens a SQLite database at the given path and applies pragmas.
// prefix is the production table-name prefix (e.g. "wp_").
func Open(path, prefix string) (*DB, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply pragmas
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return &DB{DB: db, path: path, prefix: prefix}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Prefix returns the production table-name prefix
func (db *DB) Prefix() string {
	return db.prefix
}

// Table returns the production table name for a base name, e.g. "options"
// becomes "wp_options".
func (db *DB) Table(base string) string {
	return db.prefix + base
}

// Tables returns all table names carrying the given prefix, sorted.
// Matching is literal: the underscore in a prefix like "wp_" must not act
// as a LIKE wildcard, so filtering happens here rather than in SQL.
func (db *DB) Tables(prefix string) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if strings.HasPrefix(name, prefix) {
			tables = append(tables, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	return tables, nil
}

// TextColumns returns the names of TEXT-affinity columns of a table, sorted.
func (db *DB) TextColumns(table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info for %s: %w", table, err)
		}
		upper := strings.ToUpper(colType)
		if strings.Contains(upper, "TEXT") || strings.Contains(upper, "CHAR") || strings.Contains(upper, "CLOB") {
			cols = append(cols, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}

	sort.Strings(cols)
	return cols, nil
}

// ExecPlan executes an ordered statement plan. "START TRANSACTION" and
// "COMMIT" markers map to transaction boundaries; every other statement runs
// inside the open transaction (or directly, if the plan carries none).
// On the first failing statement the transaction is rolled back and nothing
// from the plan is kept.
func (db *DB) ExecPlan(stmts []string) error {
	var tx *sql.Tx
	for _, stmt := range stmts {
		switch stmt {
		case "START TRANSACTION":
			if tx != nil {
				return fmt.Errorf("plan opened a transaction twice")
			}
			t, err := db.Begin()
			if err != nil {
				return fmt.Errorf("failed to begin transaction: %w", err)
			}
			tx = t
		case "COMMIT":
			if tx == nil {
				return fmt.Errorf("plan commits without an open transaction")
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("failed to commit plan: %w", err)
			}
			tx = nil
		default:
			var err error
			if tx != nil {
				_, err = tx.Exec(stmt)
			} else {
				_, err = db.Exec(stmt)
			}
			if err != nil {
				if tx != nil {
					tx.Rollback()
				}
				return fmt.Errorf("failed to execute %q: %w", stmt, err)
			}
		}
	}
	if tx != nil {
		tx.Rollback()
		return fmt.Errorf("plan left a transaction open")
	}
	return nil
}
