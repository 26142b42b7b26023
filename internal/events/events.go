// Package events records pipeline run progress as JSON lines, mirrored to the
// structured logger. A nil Recorder is valid and records nothing.
package events

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Record is one line in the run log.
type Record struct {
	Time   time.Time `json:"time"`
	RunID  string    `json:"run_id"`
	Event  string    `json:"event"`
	Stage  string    `json:"stage,omitempty"`
	Status string    `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`
	DurMS  int64     `json:"duration_ms,omitempty"`
	DryRun bool      `json:"dry_run,omitempty"`
}

// Recorder appends run records to a writer.
type Recorder struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	logger *zap.Logger
}

// NewRecorder creates a recorder appending to the file at path.
func NewRecorder(path string, logger *zap.Logger) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open events log: %w", err)
	}
	return &Recorder{w: f, closer: f, logger: logger}, nil
}

// NewWriterRecorder creates a recorder over an arbitrary writer.
func NewWriterRecorder(w io.Writer, logger *zap.Logger) *Recorder {
	return &Recorder{w: w, logger: logger}
}

// RunStarted records the beginning of a pipeline run.
func (r *Recorder) RunStarted(runID string, dryRun bool) {
	r.write(Record{RunID: runID, Event: "run.started", DryRun: dryRun})
}

// Stage records the outcome of one pipeline stage.
func (r *Recorder) Stage(runID, stage string, err error, elapsed time.Duration) {
	rec := Record{RunID: runID, Event: "stage.finished", Stage: stage, Status: "ok", DurMS: elapsed.Milliseconds()}
	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
	}
	r.write(rec)
}

// RunFinished records the end of a pipeline run.
func (r *Recorder) RunFinished(runID string, err error, elapsed time.Duration) {
	rec := Record{RunID: runID, Event: "run.finished", Status: "ok", DurMS: elapsed.Milliseconds()}
	if err != nil {
		rec.Status = "failed"
		rec.Error = err.Error()
	}
	r.write(rec)
}

// Close closes the underlying file, if any.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Recorder) write(rec Record) {
	if r == nil {
		return
	}
	rec.Time = time.Now().UTC()

	if r.logger != nil {
		r.logger.Info(rec.Event,
			zap.String("run_id", rec.RunID),
			zap.String("stage", rec.Stage),
			zap.String("status", rec.Status))
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.w.Write(append(data, '\n'))
}
