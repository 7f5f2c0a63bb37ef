// Package settings owns the singleton economy settings row. The snapshot is
// loaded once, served from memory, and replaced atomically after each write.
package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

// Log messages
const (
	LogMsgSettingsCreated = "Settings row missing, created with defaults"
	LogMsgSettingsUpdated = "Settings updated"
)

// Store serves the current settings snapshot
type Store interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, mutate func(*domain.Settings)) (domain.Settings, error)
	SetXPEnabled(ctx context.Context, enabled bool) (domain.Settings, error)
	// EnsureDefaults loads the row, creating it with defaults when absent
	EnsureDefaults(ctx context.Context) error
}

type store struct {
	repo     repository.Settings
	validate *validator.Validate

	mu       sync.RWMutex
	snapshot *domain.Settings
	// writeMu serializes read-modify-write cycles
	writeMu sync.Mutex
}

// NewStore creates a settings store backed by repo
func NewStore(repo repository.Settings) Store {
	return &store{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *store) EnsureDefaults(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

// Get returns the cached snapshot, loading it on first use
func (s *store) Get(ctx context.Context) (domain.Settings, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return *snap, nil
	}
	return s.load(ctx)
}

func (s *store) load(ctx context.Context) (domain.Settings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return *snap, nil
	}

	stored, err := s.repo.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: load settings: %v", domain.ErrOperationFailed, err)
	}
	if stored == nil {
		defaults := domain.DefaultSettings()
		if err := s.repo.SaveSettings(ctx, defaults); err != nil {
			return domain.Settings{}, fmt.Errorf("%w: create settings: %v", domain.ErrOperationFailed, err)
		}
		logger.FromContext(ctx).Info(LogMsgSettingsCreated)
		stored = &defaults
	}

	s.swap(*stored)
	return *stored, nil
}

// Update applies mutate to a copy, validates, persists and then swaps the snapshot
func (s *store) Update(ctx context.Context, mutate func(*domain.Settings)) (domain.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Re-read under the write lock so two updates never clobber each other
	s.mu.RLock()
	if s.snapshot != nil {
		current = *s.snapshot
	}
	s.mu.RUnlock()

	next := current
	mutate(&next)

	if err := s.validate.Struct(next); err != nil {
		return current, fmt.Errorf("%w: %v", domain.ErrInvalidSettings, err)
	}

	if err := s.repo.SaveSettings(ctx, next); err != nil {
		logger.FromContext(ctx).Error("Failed to save settings", "error", err)
		return current, fmt.Errorf("%w: save settings: %v", domain.ErrOperationFailed, err)
	}

	s.swap(next)
	logger.FromContext(ctx).Info(LogMsgSettingsUpdated, "xp_enabled", next.XPEnabled)
	return next, nil
}

func (s *store) SetXPEnabled(ctx context.Context, enabled bool) (domain.Settings, error) {
	return s.Update(ctx, func(st *domain.Settings) {
		st.XPEnabled = enabled
	})
}

func (s *store) swap(next domain.Settings) {
	s.mu.Lock()
	s.snapshot = &next
	s.mu.Unlock()
}
