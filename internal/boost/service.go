package boost

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

// Log messages
const (
	LogMsgResolveFailed  = "Boost lookup failed, using neutral multipliers"
	LogMsgPermanentGrant = "Permanent perk granted"
	LogMsgTemporaryGrant = "Temporary boost granted"
	LogMsgExpiredPurged  = "Expired boosts purged"
)

// Resolver yields the effective multiplier set for a user
type Resolver interface {
	Resolve(ctx context.Context, userID string) (domain.PerkBoostSet, error)
}

// ExpiringResolver also reports the unix time at which the set stops being
// valid because a temporary boost lapses. Zero means no boost bounds it.
type ExpiringResolver interface {
	ResolveUntil(ctx context.Context, userID string) (domain.PerkBoostSet, int64, error)
}

// Invalidator drops any cached set for a user
type Invalidator interface {
	Invalidate(userID string)
}

// Service is the repo-backed resolver plus the grant and cleanup surface
type Service interface {
	Resolver
	GrantPermanent(ctx context.Context, userID string, stat domain.BoostCategory, value float64) (*domain.PermanentPerk, error)
	GrantTemporary(ctx context.Context, userID string, stat domain.BoostCategory, value float64, duration time.Duration) (*domain.ActiveBoost, error)
	ListBoosts(ctx context.Context, userID string) (*domain.BoostSummary, error)
	PurgeExpired(ctx context.Context) (int64, error)
	// AddInvalidator registers a cache to be flushed for a user after each grant
	AddInvalidator(inv Invalidator)
}

type service struct {
	repo         repository.Boost
	now          func() time.Time
	invalidators []Invalidator
}

// NewService creates a new boost service
func NewService(repo repository.Boost) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) AddInvalidator(inv Invalidator) {
	s.invalidators = append(s.invalidators, inv)
}

// Resolve seeds each category from its permanent perk, then raises it to any
// stronger unexpired boost. Expired rows are skipped, not deleted.
func (s *service) Resolve(ctx context.Context, userID string) (domain.PerkBoostSet, error) {
	set, _, err := s.ResolveUntil(ctx, userID)
	return set, err
}

// ResolveUntil resolves like Resolve and returns the earliest end time among
// the unexpired boosts
func (s *service) ResolveUntil(ctx context.Context, userID string) (domain.PerkBoostSet, int64, error) {
	perks, err := s.repo.GetPermanentPerks(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load permanent perks: %w", err)
	}
	boosts, err := s.repo.GetActiveBoosts(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load active boosts: %w", err)
	}
	now := s.now().Unix()
	return combine(perks, boosts, now), earliestEnd(boosts, now), nil
}

func earliestEnd(boosts []domain.ActiveBoost, now int64) int64 {
	var until int64
	for _, b := range boosts {
		if !b.Stat.IsValid() || !b.IsActive(now) {
			continue
		}
		if until == 0 || b.EndTime < until {
			until = b.EndTime
		}
	}
	return until
}

func combine(perks []domain.PermanentPerk, boosts []domain.ActiveBoost, now int64) domain.PerkBoostSet {
	set := domain.NewPerkBoostSet()
	for _, p := range perks {
		if p.Stat.IsValid() {
			set[p.Stat] = p.Value
		}
	}
	for _, b := range boosts {
		if !b.Stat.IsValid() || !b.IsActive(now) {
			continue
		}
		if b.Value > set[b.Stat] {
			set[b.Stat] = b.Value
		}
	}
	return set
}

func (s *service) GrantPermanent(ctx context.Context, userID string, stat domain.BoostCategory, value float64) (*domain.PermanentPerk, error) {
	if err := validateGrant(userID, stat, value); err != nil {
		return nil, err
	}

	perk := domain.PermanentPerk{UserID: userID, Stat: stat, Value: value}
	if err := s.repo.UpsertPermanentPerk(ctx, perk); err != nil {
		logger.FromContext(ctx).Error("Failed to grant permanent perk", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}

	s.invalidate(userID)
	logger.FromContext(ctx).Info(LogMsgPermanentGrant, "user_id", userID, "stat", stat, "value", value)
	return &perk, nil
}

func (s *service) GrantTemporary(ctx context.Context, userID string, stat domain.BoostCategory, value float64, duration time.Duration) (*domain.ActiveBoost, error) {
	if err := validateGrant(userID, stat, value); err != nil {
		return nil, err
	}
	if duration < time.Second {
		return nil, fmt.Errorf("%w: duration must be at least one second", domain.ErrInvalidInput)
	}

	boost := domain.ActiveBoost{
		UserID:  userID,
		Stat:    stat,
		Value:   value,
		EndTime: s.now().Add(duration).Unix(),
	}
	if err := s.repo.InsertActiveBoost(ctx, boost); err != nil {
		logger.FromContext(ctx).Error("Failed to grant temporary boost", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}

	s.invalidate(userID)
	logger.FromContext(ctx).Info(LogMsgTemporaryGrant,
		"user_id", userID, "stat", stat, "value", value, "end_time", boost.EndTime)
	return &boost, nil
}

// ListBoosts returns unexpired boosts and permanent perks with the effective set
func (s *service) ListBoosts(ctx context.Context, userID string) (*domain.BoostSummary, error) {
	perks, err := s.repo.GetPermanentPerks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}
	boosts, err := s.repo.GetActiveBoosts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}

	now := s.now().Unix()
	active := make([]domain.ActiveBoost, 0, len(boosts))
	for _, b := range boosts {
		if b.IsActive(now) {
			active = append(active, b)
		}
	}
	if perks == nil {
		perks = []domain.PermanentPerk{}
	}

	return &domain.BoostSummary{
		Permanent: perks,
		Active:    active,
		Effective: combine(perks, boosts, now),
	}, nil
}

// PurgeExpired deletes lapsed boost rows
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredBoosts(ctx, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}
	if n > 0 {
		logger.FromContext(ctx).Info(LogMsgExpiredPurged, "count", n)
	}
	return n, nil
}

func (s *service) invalidate(userID string) {
	for _, inv := range s.invalidators {
		inv.Invalidate(userID)
	}
}

func validateGrant(userID string, stat domain.BoostCategory, value float64) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if !stat.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidBoostCategory, stat)
	}
	if value <= 0 {
		return fmt.Errorf("%w: boost value must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// ResolveOrDefault resolves through r, falling back to the neutral set on error
func ResolveOrDefault(ctx context.Context, r Resolver, userID string) domain.PerkBoostSet {
	if r == nil {
		return domain.NewPerkBoostSet()
	}
	set, err := r.Resolve(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgResolveFailed, "user_id", userID, "error", err)
		return domain.NewPerkBoostSet()
	}
	return set
}
