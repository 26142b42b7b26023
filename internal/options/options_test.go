package options

import (
	"reflect"
	"testing"

	"github.com/stagekit/stagekit/internal/cache"
	"github.com/stagekit/stagekit/internal/testutil"
)

func TestStore_GetMissing(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	s := New(database, "wp_", nil)

	_, found, err := s.Get("siteurl")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Fatal("missing option reported as found")
	}
}

func TestStore_UpsertAndUpdate(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	s := New(database, "wp_", nil)

	// Update on a missing option affects nothing.
	affected, err := s.Update("siteurl", "https://example.com")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if affected {
		t.Fatal("update of missing option reported a row")
	}

	// Upsert inserts, then replaces.
	if err := s.Upsert("siteurl", "https://example.com"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Upsert("siteurl", "https://example.org"); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	value, found, err := s.Get("siteurl")
	if err != nil || !found {
		t.Fatalf("Get = %q, %v, %v", value, found, err)
	}
	if value != "https://example.org" {
		t.Errorf("value = %q", value)
	}

	// Update now affects the row, including writes of the identical value.
	affected, err = s.Update("siteurl", "https://example.org")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !affected {
		t.Fatal("update of existing option reported no row")
	}
}

func TestStore_GetJSON(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.SetOption(t, database, "wp_", "active_plugins", `["a/a.php","b/b.php"]`)
	s := New(database, "wp_", nil)

	var plugins []string
	found, err := s.GetJSON("active_plugins", &plugins)
	if err != nil || !found {
		t.Fatalf("GetJSON = %v, %v", found, err)
	}
	if !reflect.DeepEqual(plugins, []string{"a/a.php", "b/b.php"}) {
		t.Errorf("plugins = %v", plugins)
	}

	found, err = s.GetJSON("missing", &plugins)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if found {
		t.Error("missing option reported as found")
	}

	testutil.SetOption(t, database, "wp_", "broken", `{not json`)
	if _, err := s.GetJSON("broken", &plugins); err == nil {
		t.Error("expected decode error for malformed value")
	}
}

func TestStore_ReadsThroughCache(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.SetOption(t, database, "wp_", "siteurl", "https://example.com")

	c := cache.New()
	s := New(database, "wp_", c)

	if _, _, err := s.Get("siteurl"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Change the row behind the store's back: the cached value wins until a
	// flush.
	testutil.SetOption(t, database, "wp_", "siteurl", "https://changed.example.com")
	value, _, err := s.Get("siteurl")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "https://example.com" {
		t.Errorf("expected cached value, got %q", value)
	}

	c.Flush()
	value, _, err = s.Get("siteurl")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "https://changed.example.com" {
		t.Errorf("expected fresh value after flush, got %q", value)
	}
}

func TestStore_UpdateOfMissingRowDropsStaleCacheEntry(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.SetOption(t, database, "wp_", "siteurl", "https://example.com")

	c := cache.New()
	s := New(database, "wp_", c)

	// Populate the cache, then remove the row behind the store's back.
	if _, _, err := s.Get("siteurl"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := database.Exec(`DELETE FROM "wp_options" WHERE option_name = 'siteurl'`); err != nil {
		t.Fatalf("failed to delete row: %v", err)
	}

	affected, err := s.Update("siteurl", "https://changed.example.com")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if affected {
		t.Fatal("update of deleted option reported a row")
	}

	// The stale entry is gone: the next read hits the table and misses.
	if _, found, err := s.Get("siteurl"); err != nil || found {
		t.Fatalf("expected miss after failed update, got found=%v err=%v", found, err)
	}
}

func TestStore_PrefixesAreIndependent(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.CreateOptionsTable(t, database, "stg_wp_")

	c := cache.New()
	prod := New(database, "wp_", c)
	staging := New(database, "stg_wp_", c)

	if err := prod.Upsert("siteurl", "https://live.example.com"); err != nil {
		t.Fatalf("prod Upsert failed: %v", err)
	}
	if err := staging.Upsert("siteurl", "http://sandbox.test"); err != nil {
		t.Fatalf("staging Upsert failed: %v", err)
	}

	v, _, _ := prod.Get("siteurl")
	if v != "https://live.example.com" {
		t.Errorf("prod siteurl = %q", v)
	}
	v, _, _ = staging.Get("siteurl")
	if v != "http://sandbox.test" {
		t.Errorf("staging siteurl = %q", v)
	}
}
