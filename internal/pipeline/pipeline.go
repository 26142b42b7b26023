// Package pipeline postprocesses a freshly imported staging table set and
// promotes it into the production table names. The five stages run in fixed
// order; the first stage to fail aborts the run and its failure is returned
// to the caller unchanged.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stagekit/stagekit/internal/connection"
	"github.com/stagekit/stagekit/internal/db"
	"github.com/stagekit/stagekit/internal/events"
	"github.com/stagekit/stagekit/internal/options"
	"github.com/stagekit/stagekit/internal/replace"
)

// Flusher invalidates a process-wide read cache after a successful swap.
type Flusher interface {
	Flush()
}

// Pipeline runs the postprocess stages against one database connection.
type Pipeline struct {
	db       *db.DB
	prod     *options.Store
	staging  *options.Store
	replacer replace.Replacer
	conn     connection.Manager
	cache    Flusher
	events   *events.Recorder
	logger   *zap.Logger

	// stagingTag is prepended to the production prefix on every staging
	// table, e.g. tag "stg_" and prefix "wp_" give "stg_wp_posts".
	stagingTag string
}

// Config wires the pipeline's collaborators. DB, StagingTag and Replacer are
// required; Connection is required for the ownership stage to succeed; the
// rest are optional.
type Config struct {
	DB         *db.DB
	StagingTag string
	Prod       *options.Store
	Staging    *options.Store
	Replacer   replace.Replacer
	Connection connection.Manager
	Cache      Flusher
	Events     *events.Recorder
	Logger     *zap.Logger
}

// New creates a pipeline. Missing option stores are derived from the
// connection's prefix and the staging tag.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prod := cfg.Prod
	if prod == nil {
		prod = options.New(cfg.DB, cfg.DB.Prefix(), nil)
	}
	staging := cfg.Staging
	if staging == nil {
		staging = options.New(cfg.DB, cfg.StagingTag+cfg.DB.Prefix(), nil)
	}
	return &Pipeline{
		db:         cfg.DB,
		prod:       prod,
		staging:    staging,
		replacer:   cfg.Replacer,
		conn:       cfg.Connection,
		cache:      cfg.Cache,
		events:     cfg.Events,
		logger:     logger,
		stagingTag: cfg.StagingTag,
	}
}

// stagingPrefix is the full prefix carried by every staging table.
func (p *Pipeline) stagingPrefix() string {
	return p.stagingTag + p.db.Prefix()
}

// stagingTable returns the staging table name for a base name.
func (p *Pipeline) stagingTable(base string) string {
	return p.stagingPrefix() + base
}

// Options controls a postprocess run.
type Options struct {
	HomeURL string
	SiteURL string

	// DryRun computes the swap plan but never executes it and never flushes
	// the cache. The URL rewrite stage still runs; the substitution tool has
	// its own dry-run knob for callers that need a fully read-only pass.
	DryRun bool

	// Exclude lists production table names the swap must not touch. Nil
	// selects the default user/identity tables.
	Exclude []string
}

// Result describes a completed run.
type Result struct {
	RunID    string
	Plan     []string
	DryRun   bool
	Replaced int64
	OwnerID  int64
}

// Postprocess runs all five stages in order, short-circuiting on the first
// failure. On success in non-dry-run mode it executes the swap plan and
// flushes the read cache exactly once.
func (p *Pipeline) Postprocess(opts Options) (*Result, error) {
	runID := uuid.New().String()
	started := time.Now()
	p.events.RunStarted(runID, opts.DryRun)

	res := &Result{RunID: runID, DryRun: opts.DryRun}

	stages := []struct {
		name string
		run  func() error
	}{
		{"rewrite-urls", func() error {
			n, err := p.RewriteURLs(opts.HomeURL, opts.SiteURL)
			res.Replaced = n
			return err
		}},
		{"preserve-options", p.PreserveOptions},
		{"merge-plugins", p.MergePlugins},
		{"remap-ownership", func() error {
			owner, err := p.RemapOwnership()
			res.OwnerID = owner
			return err
		}},
		{"plan-swap", func() error {
			plan, err := p.PlanSwap(opts.Exclude)
			res.Plan = plan
			return err
		}},
	}

	for _, stage := range stages {
		stageStart := time.Now()
		err := stage.run()
		p.events.Stage(runID, stage.name, err, time.Since(stageStart))
		if err != nil {
			p.logger.Error("stage failed", zap.String("stage", stage.name), zap.Error(err))
			p.events.RunFinished(runID, err, time.Since(started))
			return nil, err
		}
	}

	if !opts.DryRun {
		if err := p.db.ExecPlan(res.Plan); err != nil {
			p.logger.Error("swap failed", zap.Error(err))
			p.events.RunFinished(runID, err, time.Since(started))
			return nil, err
		}
		if p.cache != nil {
			p.cache.Flush()
		}
		p.logger.Info("staging tables promoted",
			zap.String("run_id", runID),
			zap.Int("statements", len(res.Plan)))
	} else {
		p.logger.Info("dry run, swap not executed",
			zap.String("run_id", runID),
			zap.Int("statements", len(res.Plan)))
	}

	p.events.RunFinished(runID, nil, time.Since(started))
	return res, nil
}
