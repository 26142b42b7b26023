package pipeline

import (
	"reflect"
	"testing"

	"github.com/stagekit/stagekit/internal/testutil"
)

func TestMergePluginLists(t *testing.T) {
	cases := []struct {
		name    string
		prod    []string
		staging []string
		want    []string
	}{
		{
			name:    "union with dedup",
			prod:    []string{"jetpack/jetpack.php", "akismet/akismet.php"},
			staging: []string{"akismet/akismet.php", "hello-dolly/hello.php"},
			want:    []string{"akismet/akismet.php", "hello-dolly/hello.php", "jetpack/jetpack.php"},
		},
		{
			name:    "staging-only plugins dropped",
			prod:    []string{"jetpack/jetpack.php"},
			staging: []string{"sqlite-database-integration/load.php", "playground-tools/playground-tools.php"},
			want:    []string{"jetpack/jetpack.php"},
		},
		{
			name:    "empty production",
			prod:    nil,
			staging: []string{"hello-dolly/hello.php"},
			want:    []string{"hello-dolly/hello.php"},
		},
		{
			name:    "both empty",
			prod:    nil,
			staging: nil,
			want:    []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mergePluginLists(tc.prod, tc.staging)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("mergePluginLists() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMergePluginLists_Idempotent(t *testing.T) {
	prod := []string{"jetpack/jetpack.php"}
	staging := []string{"hello-dolly/hello.php", "sqlite-database-integration/load.php"}

	once := mergePluginLists(prod, staging)
	twice := mergePluginLists(once, staging)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent: once %v, twice %v", once, twice)
	}
}

func TestMergePlugins_WritesMergedListToStaging(t *testing.T) {
	p, database := newTestPipeline(t, Config{})
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.CreateOptionsTable(t, database, "stg_wp_")
	testutil.SetOption(t, database, "wp_", "active_plugins", `["jetpack/jetpack.php"]`)
	testutil.SetOption(t, database, "stg_wp_", "active_plugins",
		`["hello-dolly/hello.php","sqlite-database-integration/load.php"]`)

	if err := p.MergePlugins(); err != nil {
		t.Fatalf("MergePlugins failed: %v", err)
	}

	got := testutil.GetOption(t, database, "stg_wp_", "active_plugins")
	if got != `["hello-dolly/hello.php","jetpack/jetpack.php"]` {
		t.Errorf("active_plugins = %q", got)
	}

	// A second merge leaves the list unchanged.
	if err := p.MergePlugins(); err != nil {
		t.Fatalf("second MergePlugins failed: %v", err)
	}
	if again := testutil.GetOption(t, database, "stg_wp_", "active_plugins"); again != got {
		t.Errorf("merge not idempotent: %q then %q", got, again)
	}
}

func TestMergePlugins_MissingProductionListDefaultsEmpty(t *testing.T) {
	p, database := newTestPipeline(t, Config{})
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.CreateOptionsTable(t, database, "stg_wp_")
	testutil.SetOption(t, database, "stg_wp_", "active_plugins", `["hello-dolly/hello.php"]`)

	if err := p.MergePlugins(); err != nil {
		t.Fatalf("MergePlugins failed: %v", err)
	}
	if got := testutil.GetOption(t, database, "stg_wp_", "active_plugins"); got != `["hello-dolly/hello.php"]` {
		t.Errorf("active_plugins = %q", got)
	}
}

func TestMergePlugins_FailsWithoutStagingRow(t *testing.T) {
	p, database := newTestPipeline(t, Config{})
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.CreateOptionsTable(t, database, "stg_wp_")
	// No staging active_plugins row: the keyed update affects nothing.

	err := p.MergePlugins()
	if CodeOf(err) != CodeUpdatePlugins {
		t.Fatalf("expected %s, got %v", CodeUpdatePlugins, err)
	}
}
