// Package options provides access to an options table (option_name,
// option_value rows) under a given table prefix. The production store and the
// staging store are two Store values differing only in prefix.
package options

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stagekit/stagekit/internal/cache"
	"github.com/stagekit/stagekit/internal/db"
)

// Store reads and writes named options in one prefixed options table.
type Store struct {
	db     *db.DB
	prefix string
	cache  *cache.Cache
}

// New creates a store for the options table under prefix. The cache is
// optional; when present, Get reads through it.
func New(database *db.DB, prefix string, c *cache.Cache) *Store {
	return &Store{db: database, prefix: prefix, cache: c}
}

// Prefix returns the table prefix this store operates under.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) table() string {
	return s.prefix + "options"
}

func (s *Store) cacheKey(name string) string {
	return s.prefix + name
}

// Get returns the value of a named option. The second return is false when
// the option does not exist.
func (s *Store) Get(name string) (string, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(s.cacheKey(name)); ok {
			return v, true, nil
		}
	}

	var value string
	query := fmt.Sprintf("SELECT option_value FROM %q WHERE option_name = ?", s.table())
	err := s.db.QueryRow(query, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read option %s: %w", name, err)
	}

	if s.cache != nil {
		s.cache.Set(s.cacheKey(name), value)
	}
	return value, true, nil
}

// GetJSON reads a named option and unmarshals its JSON value into v.
// Returns false without touching v when the option does not exist.
func (s *Store) GetJSON(name string, v interface{}) (bool, error) {
	raw, found, err := s.Get(name)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("failed to decode option %s: %w", name, err)
	}
	return true, nil
}

// Upsert inserts the option or replaces its value, keyed by option name.
func (s *Store) Upsert(name, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %q (option_name, option_value) VALUES (?, ?)
		ON CONFLICT(option_name) DO UPDATE SET option_value = excluded.option_value
	`, s.table())
	if _, err := s.db.Exec(query, name, value); err != nil {
		return fmt.Errorf("failed to upsert option %s: %w", name, err)
	}
	if s.cache != nil {
		s.cache.Set(s.cacheKey(name), value)
	}
	return nil
}

// Update rewrites an existing option and reports whether a row was affected.
// A missing option is not an error; it reports false.
func (s *Store) Update(name, value string) (bool, error) {
	query := fmt.Sprintf("UPDATE %q SET option_value = ? WHERE option_name = ?", s.table())
	res, err := s.db.Exec(query, value, name)
	if err != nil {
		return false, fmt.Errorf("failed to update option %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for option %s: %w", name, err)
	}
	if s.cache != nil {
		if n > 0 {
			s.cache.Set(s.cacheKey(name), value)
		} else {
			// No row behind the name; drop any stale cached value.
			s.cache.Delete(s.cacheKey(name))
		}
	}
	return n > 0, nil
}
