package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommunityEconomy_Go/internal/boost"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
)

var (
	_ progression.Service = (*mockProgression)(nil)
	_ investment.Service  = (*mockInvestment)(nil)
	_ settings.Store      = (*mockSettings)(nil)
	_ boost.Service       = (*mockBoosts)(nil)
)

type mockProgression struct{ mock.Mock }

func (m *mockProgression) AwardMessageXP(ctx context.Context, req progression.MessageXPRequest) (*progression.MessageXPResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*progression.MessageXPResult)
	return res, args.Error(1)
}

func (m *mockProgression) AwardVoiceActivity(ctx context.Context, req progression.VoiceActivityRequest) (*progression.ActivityResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*progression.ActivityResult)
	return res, args.Error(1)
}

func (m *mockProgression) AwardImageShare(ctx context.Context, userID, username string) (*progression.ActivityResult, error) {
	args := m.Called(ctx, userID, username)
	res, _ := args.Get(0).(*progression.ActivityResult)
	return res, args.Error(1)
}

func (m *mockProgression) AdjustCoins(ctx context.Context, adj progression.CoinAdjustment) (*domain.Account, error) {
	args := m.Called(ctx, adj)
	res, _ := args.Get(0).(*domain.Account)
	return res, args.Error(1)
}

func (m *mockProgression) Prestige(ctx context.Context, userID, username string) (*progression.PrestigeResult, error) {
	args := m.Called(ctx, userID, username)
	res, _ := args.Get(0).(*progression.PrestigeResult)
	return res, args.Error(1)
}

func (m *mockProgression) GetAccount(ctx context.Context, userID string) (*progression.AccountSnapshot, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*progression.AccountSnapshot)
	return res, args.Error(1)
}

func (m *mockProgression) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	res, _ := args.Get(0).([]domain.LeaderboardEntry)
	return res, args.Error(1)
}

func (m *mockProgression) AdminAdjustLevels(ctx context.Context, adj progression.LevelAdjustment) (*domain.Account, error) {
	args := m.Called(ctx, adj)
	res, _ := args.Get(0).(*domain.Account)
	return res, args.Error(1)
}

type mockInvestment struct{ mock.Mock }

func (m *mockInvestment) outcome(args mock.Arguments) (*investment.Outcome, error) {
	res, _ := args.Get(0).(*investment.Outcome)
	return res, args.Error(1)
}

func (m *mockInvestment) Purchase(ctx context.Context, userID, property string) (*investment.Outcome, error) {
	return m.outcome(m.Called(ctx, userID, property))
}

func (m *mockInvestment) Sell(ctx context.Context, userID, property string) (*investment.Outcome, error) {
	return m.outcome(m.Called(ctx, userID, property))
}

func (m *mockInvestment) Maintain(ctx context.Context, userID, property string) (*investment.Outcome, error) {
	return m.outcome(m.Called(ctx, userID, property))
}

func (m *mockInvestment) Repair(ctx context.Context, userID, property string) (*investment.Outcome, error) {
	return m.outcome(m.Called(ctx, userID, property))
}

func (m *mockInvestment) Collect(ctx context.Context, userID, property string) (*investment.Outcome, error) {
	return m.outcome(m.Called(ctx, userID, property))
}

func (m *mockInvestment) CollectAll(ctx context.Context, userID string) (*investment.CollectAllResult, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*investment.CollectAllResult)
	return res, args.Error(1)
}

func (m *mockInvestment) MaintainAll(ctx context.Context, userID string) (*investment.MaintainAllResult, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*investment.MaintainAllResult)
	return res, args.Error(1)
}

func (m *mockInvestment) Portfolio(ctx context.Context, userID string) (*investment.Portfolio, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*investment.Portfolio)
	return res, args.Error(1)
}

func (m *mockInvestment) Catalog() []domain.PropertyCatalogEntry {
	args := m.Called()
	res, _ := args.Get(0).([]domain.PropertyCatalogEntry)
	return res
}

func (m *mockInvestment) NeedsAttention(ctx context.Context) ([]investment.Attention, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]investment.Attention)
	return res, args.Error(1)
}

func (m *mockInvestment) UpdateProperties(ctx context.Context) (*investment.TickSummary, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*investment.TickSummary)
	return res, args.Error(1)
}

func (m *mockInvestment) ResetAllAccumulated(ctx context.Context) (*investment.ResetSummary, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*investment.ResetSummary)
	return res, args.Error(1)
}

// mockSettings applies Update's mutator to a real snapshot so patch tests
// see the result
type mockSettings struct {
	mock.Mock
	current domain.Settings
}

func (m *mockSettings) Get(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return m.current, args.Error(0)
}

func (m *mockSettings) Update(ctx context.Context, mutate func(*domain.Settings)) (domain.Settings, error) {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return domain.Settings{}, err
	}
	mutate(&m.current)
	return m.current, nil
}

func (m *mockSettings) SetXPEnabled(ctx context.Context, enabled bool) (domain.Settings, error) {
	args := m.Called(ctx, enabled)
	if err := args.Error(0); err != nil {
		return domain.Settings{}, err
	}
	m.current.XPEnabled = enabled
	return m.current, nil
}

func (m *mockSettings) EnsureDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockBoosts struct{ mock.Mock }

func (m *mockBoosts) Resolve(ctx context.Context, userID string) (domain.PerkBoostSet, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(domain.PerkBoostSet)
	return res, args.Error(1)
}

func (m *mockBoosts) GrantPermanent(ctx context.Context, userID string, stat domain.BoostCategory, value float64) (*domain.PermanentPerk, error) {
	args := m.Called(ctx, userID, stat, value)
	res, _ := args.Get(0).(*domain.PermanentPerk)
	return res, args.Error(1)
}

func (m *mockBoosts) GrantTemporary(ctx context.Context, userID string, stat domain.BoostCategory, value float64, duration time.Duration) (*domain.ActiveBoost, error) {
	args := m.Called(ctx, userID, stat, value, duration)
	res, _ := args.Get(0).(*domain.ActiveBoost)
	return res, args.Error(1)
}

func (m *mockBoosts) ListBoosts(ctx context.Context, userID string) (*domain.BoostSummary, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*domain.BoostSummary)
	return res, args.Error(1)
}

func (m *mockBoosts) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBoosts) AddInvalidator(boost.Invalidator) {}

type mockPinger struct{ err error }

func (p mockPinger) Ping(context.Context) error { return p.err }
