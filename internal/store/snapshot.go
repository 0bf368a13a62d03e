// Package store persists the profile store as a rebuildable snapshot and
// hands it to readers as an immutable value.
package store

import (
	"sync/atomic"
	"time"

	"github.com/sells-group/profile-cli/internal/model"
)

// Snapshot is one complete, immutable build of the profile store. Rebuilds
// produce a new Snapshot; nothing mutates an existing one.
type Snapshot struct {
	RunID     string                          `json:"run_id,omitempty"`
	CreatedAt time.Time                       `json:"created_at"`
	Profiles  map[string]model.CompanyProfile `json:"profiles"`
}

// NewSnapshot stamps a profile store with its run metadata.
func NewSnapshot(runID string, profiles map[string]model.CompanyProfile) *Snapshot {
	return &Snapshot{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Profiles:  profiles,
	}
}

// Holder publishes the current snapshot to concurrent readers. Swaps are
// atomic; readers never need locks.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// Swap publishes a new snapshot.
func (h *Holder) Swap(s *Snapshot) {
	h.current.Store(s)
}

// Current returns the published snapshot, or nil before the first Swap.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}
