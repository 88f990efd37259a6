// Package memory provides in-memory implementations of storage ports,
// used when no database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/artpar/docgate/ports"
)

// SettingsStore holds document settings in memory.
type SettingsStore struct {
	mu       sync.RWMutex
	settings ports.Settings
}

// NewSettingsStore creates an empty in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

// Get returns the current settings.
func (s *SettingsStore) Get(ctx context.Context) (ports.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

// Put replaces the current settings.
func (s *SettingsStore) Put(ctx context.Context, settings ports.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

var _ ports.SettingsStore = (*SettingsStore)(nil)
