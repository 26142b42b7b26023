package connection

import (
	"errors"
	"testing"

	"github.com/stagekit/stagekit/internal/options"
	"github.com/stagekit/stagekit/internal/testutil"
)

func TestOptionsManager_OwnerID(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")
	testutil.SetOption(t, database, "wp_", "jetpack_options", `{"id":12345,"master_user":7}`)

	m := NewOptionsManager(options.New(database, "wp_", nil))
	owner, err := m.OwnerID()
	if err != nil {
		t.Fatalf("OwnerID failed: %v", err)
	}
	if owner != 7 {
		t.Errorf("owner = %d, want 7", owner)
	}
}

func TestOptionsManager_NotConnected(t *testing.T) {
	database := testutil.TempDB(t, "wp_")
	testutil.CreateOptionsTable(t, database, "wp_")

	m := NewOptionsManager(options.New(database, "wp_", nil))

	// Blob absent entirely.
	if _, err := m.OwnerID(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	// Blob present but naming no owner.
	testutil.SetOption(t, database, "wp_", "jetpack_options", `{"id":12345}`)
	if _, err := m.OwnerID(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected for ownerless blob, got %v", err)
	}
}
