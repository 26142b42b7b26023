// Package replace performs exact-string substitution across the column values
// of a set of prefixed tables. The preferred implementation shells out to an
// external search-replace binary; a built-in SQL fallback covers environments
// where the binary is not installed.
package replace

import (
	"errors"
)

// ErrUnavailable reports that no substitution tool could be invoked. Callers
// treat this as "substitution not performed" rather than a hard failure.
var ErrUnavailable = errors.New("search-replace tool unavailable")

// Replacer substitutes every exact occurrence of search with repl across all
// column values of the tables matching tableGlob (a trailing-* prefix glob).
// It returns the number of changed cells. With dryRun set, occurrences are
// counted but nothing is modified.
type Replacer interface {
	Replace(search, repl, tableGlob string, dryRun bool) (int64, error)
}
