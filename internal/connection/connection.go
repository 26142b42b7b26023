// Package connection resolves the connection owner identity used to reassign
// content ownership after an import.
package connection

import (
	"errors"
	"fmt"

	"github.com/stagekit/stagekit/internal/options"
)

// ErrNotConnected reports that the site has no connection owner.
var ErrNotConnected = errors.New("site is not connected")

// Manager resolves the connection owner's numeric user ID.
type Manager interface {
	OwnerID() (int64, error)
}

// OptionsManager resolves the owner from the production jetpack_options blob,
// whose master_user field carries the owner's user ID.
type OptionsManager struct {
	Options *options.Store
}

// NewOptionsManager creates a manager over the production option store.
func NewOptionsManager(store *options.Store) *OptionsManager {
	return &OptionsManager{Options: store}
}

// OwnerID returns the connection owner's user ID, or ErrNotConnected when the
// blob is absent or names no owner.
func (m *OptionsManager) OwnerID() (int64, error) {
	var blob struct {
		MasterUser int64 `json:"master_user"`
	}
	found, err := m.Options.GetJSON("jetpack_options", &blob)
	if err != nil {
		return 0, fmt.Errorf("failed to read connection options: %w", err)
	}
	if !found || blob.MasterUser == 0 {
		return 0, ErrNotConnected
	}
	return blob.MasterUser, nil
}
