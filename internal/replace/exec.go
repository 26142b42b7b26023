package replace

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ExecReplacer invokes an external search-replace binary in precise mode.
type ExecReplacer struct {
	// Bin is the binary to invoke. Resolved through PATH when not absolute.
	Bin    string
	Logger *zap.Logger
}

// NewExecReplacer creates a replacer around the given binary.
func NewExecReplacer(bin string, logger *zap.Logger) *ExecReplacer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecReplacer{Bin: bin, Logger: logger}
}

// Replace runs the binary as:
//
//	<bin> <search> <repl> <glob> --all-tables-with-prefix --precise --report=count [--dry-run]
//
// and parses the reported count from the last line of output. A missing
// binary yields ErrUnavailable.
func (r *ExecReplacer) Replace(search, repl, tableGlob string, dryRun bool) (int64, error) {
	if r.Bin == "" {
		return 0, ErrUnavailable
	}
	if _, err := exec.LookPath(r.Bin); err != nil {
		return 0, ErrUnavailable
	}

	args := []string{search, repl, tableGlob, "--all-tables-with-prefix", "--precise", "--report=count"}
	if dryRun {
		args = append(args, "--dry-run")
	}

	cmd := exec.Command(r.Bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Debug("invoking search-replace tool",
		zap.String("bin", r.Bin),
		zap.String("glob", tableGlob),
		zap.Bool("dry_run", dryRun))

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("search-replace failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseCount(stdout.String())
}

// parseCount extracts the affected count from the tool's report output,
// taking the last all-digit token of the last non-empty line.
func parseCount(out string) (int64, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 {
		return 0, fmt.Errorf("search-replace produced no report")
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	fields := strings.Fields(last)
	for i := len(fields) - 1; i >= 0; i-- {
		if n, err := strconv.ParseInt(fields[i], 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("search-replace report %q carries no count", last)
}
