package checklist

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"WTISentinel/internal/model"
)

// ErrUnknownFactor is returned for a factor id outside the checklist.
var ErrUnknownFactor = errors.New("unknown checklist factor")

// ParseFactor resolves a user-supplied factor id, case-insensitively.
func ParseFactor(s string) (model.FactorID, error) {
	id := model.FactorID(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range model.AllFactors {
		if f == id {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFactor, s)
}

// Manager holds manual checklist overrides with concurrency safety.
// An empty filePath keeps state in memory only.
type Manager struct {
	mu       sync.Mutex
	state    *model.ChecklistState
	filePath string
}

// NewManager creates a Manager, loading state from disk when a path is given.
func NewManager(filePath string) (*Manager, error) {
	state := &model.ChecklistState{Overrides: map[model.FactorID]bool{}}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, err
		}
	}
	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Overrides returns a copy of the current overrides.
func (m *Manager) Overrides() map[model.FactorID]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.FactorID]bool, len(m.state.Overrides))
	for k, v := range m.state.Overrides {
		out[k] = v
	}
	return out
}

// GetState returns a copy of the current state.
func (m *Manager) GetState() model.ChecklistState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.state
	s.Overrides = make(map[model.FactorID]bool, len(m.state.Overrides))
	for k, v := range m.state.Overrides {
		s.Overrides[k] = v
	}
	return s
}

// Set forces a factor to pass or fail until cleared.
func (m *Manager) Set(id model.FactorID, pass bool) error {
	if _, err := ParseFactor(string(id)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Overrides[id] = pass
	return m.save()
}

// Clear hands a factor back to automatic evaluation.
func (m *Manager) Clear(id model.FactorID) error {
	if _, err := ParseFactor(string(id)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state.Overrides, id)
	return m.save()
}

// Reset drops every override (called every Monday and by /reset).
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Overrides = map[model.FactorID]bool{}
	if err := m.save(); err != nil {
		log.Error().Err(err).Str("component", "checklist").Msg("failed to save state after reset")
	}
}

// LastTier returns the tier of the previous scheduled evaluation.
func (m *Manager) LastTier() model.BiasTier {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastTier
}

// SetLastTier records the latest tier and reports whether it changed.
func (m *Manager) SetLastTier(tier model.BiasTier) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.LastTier == tier {
		return false
	}
	m.state.LastTier = tier
	if err := m.save(); err != nil {
		log.Error().Err(err).Str("component", "checklist").Msg("failed to save last tier")
	}
	return true
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}
