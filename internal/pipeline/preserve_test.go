package pipeline

import (
	"testing"

	"github.com/stagekit/stagekit/internal/testutil"
)

func TestPreserveOptions_NoOpWhenProductionHasNone(t *testing.T) {
	p, database := newTestPipeline(t, Config{})
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.CreateOptionsTable(t, database, "stg_wp_")

	if err := p.PreserveOptions(); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
}

func TestPreserveOptions_CopiesIntoStaging(t *testing.T) {
	p, database := newTestPipeline(t, Config{})
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.CreateOptionsTable(t, database, "stg_wp_")

	testutil.SetOption(t, database, "wp_", "jetpack_options", `{"master_user":7}`)
	testutil.SetOption(t, database, "wp_", "jetpack_active_modules", `["stats"]`)
	// Staging already carries a stale copy that must be replaced.
	testutil.SetOption(t, database, "stg_wp_", "jetpack_options", `{"master_user":1}`)

	if err := p.PreserveOptions(); err != nil {
		t.Fatalf("PreserveOptions failed: %v", err)
	}

	if got := testutil.GetOption(t, database, "stg_wp_", "jetpack_options"); got != `{"master_user":7}` {
		t.Errorf("jetpack_options = %q", got)
	}
	if got := testutil.GetOption(t, database, "stg_wp_", "jetpack_active_modules"); got != `["stats"]` {
		t.Errorf("jetpack_active_modules = %q", got)
	}
}

func TestPreserveOptions_FailsWhenNothingSaves(t *testing.T) {
	p, database := newTestPipeline(t, Config{})
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.SetOption(t, database, "wp_", "jetpack_options", `{"master_user":7}`)
	// No staging options table, so every upsert fails.

	err := p.PreserveOptions()
	if CodeOf(err) != CodeSaveJetpackOption {
		t.Fatalf("expected %s, got %v", CodeSaveJetpackOption, err)
	}
}
