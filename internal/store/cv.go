// Package store holds the process-wide CV slot. The service keeps at most one
// CV profile in memory at a time; uploads replace it and an explicit delete
// clears it.
package store

import (
	"sync"

	"github.com/jonathan/apply-agent/internal/types"
)

// CVStore is a lock-guarded slot for the currently uploaded CV profile.
// It is shared across requests and safe for concurrent use. The zero value
// is an empty store ready for use.
type CVStore struct {
	mu      sync.RWMutex
	profile *types.CVProfile
}

// NewCVStore returns an empty CV store.
func NewCVStore() *CVStore {
	return &CVStore{}
}

// Get returns a copy of the stored profile, or false when no CV is uploaded.
// Returning a copy keeps callers from mutating shared state outside the lock.
func (s *CVStore) Get() (types.CVProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return types.CVProfile{}, false
	}

	copied := *s.profile
	copied.Skills = append([]string(nil), s.profile.Skills...)
	copied.Experience = append([]string(nil), s.profile.Experience...)
	return copied, true
}

// Set replaces the stored profile. A previous profile is discarded.
func (s *CVStore) Set(profile types.CVProfile) {
	profile.EnsureSlices()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
}

// Clear removes the stored profile. Reports whether a profile was present.
func (s *CVStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	had := s.profile != nil
	s.profile = nil
	return had
}
