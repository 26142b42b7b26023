package replace

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/stagekit/stagekit/internal/db"
)

// SQLReplacer is the built-in fallback: it rewrites TEXT-affinity columns of
// the matching tables with SQL replace(). Exact occurrences only, no pattern
// semantics, which matches the external tool's precise mode.
type SQLReplacer struct {
	DB     *db.DB
	Logger *zap.Logger
}

// NewSQLReplacer creates a replacer over the given connection.
func NewSQLReplacer(database *db.DB, logger *zap.Logger) *SQLReplacer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLReplacer{DB: database, Logger: logger}
}

// Replace substitutes search with repl in every TEXT-affinity column of the
// tables matching tableGlob. Returns the number of changed cells. With dryRun
// set it counts the cells that would change without modifying them.
func (r *SQLReplacer) Replace(search, repl, tableGlob string, dryRun bool) (int64, error) {
	if search == "" {
		return 0, fmt.Errorf("empty search string")
	}

	prefix := strings.TrimSuffix(tableGlob, "*")
	tables, err := r.DB.Tables(prefix)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, table := range tables {
		cols, err := r.DB.TextColumns(table)
		if err != nil {
			return total, err
		}
		for _, col := range cols {
			n, err := r.replaceColumn(table, col, search, repl, dryRun)
			if err != nil {
				return total, err
			}
			total += n
		}
	}

	r.Logger.Debug("substitution complete",
		zap.String("glob", tableGlob),
		zap.Int64("cells", total),
		zap.Bool("dry_run", dryRun))
	return total, nil
}

func (r *SQLReplacer) replaceColumn(table, col, search, repl string, dryRun bool) (int64, error) {
	if dryRun {
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %q WHERE instr(%q, ?) > 0", table, col)
		if err := r.DB.QueryRow(query, search).Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to count matches in %s.%s: %w", table, col, err)
		}
		return n, nil
	}

	query := fmt.Sprintf("UPDATE %q SET %q = replace(%q, ?, ?) WHERE instr(%q, ?) > 0", table, col, col, col)
	res, err := r.DB.Exec(query, search, repl, search)
	if err != nil {
		return 0, fmt.Errorf("failed to replace in %s.%s: %w", table, col, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows for %s.%s: %w", table, col, err)
	}
	return n, nil
}
