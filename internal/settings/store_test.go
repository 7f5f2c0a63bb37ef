package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

type MockSettingsRepository struct {
	mock.Mock
}

var _ repository.Settings = (*MockSettingsRepository)(nil)

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, s domain.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func TestGet_CreatesDefaultsWhenMissing(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(nil, nil).Once()
	repo.On("SaveSettings", mock.Anything, domain.DefaultSettings()).Return(nil).Once()
	s := NewStore(repo)

	got, err := s.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)

	// Second read is served from the snapshot
	_, err = s.Get(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGet_LoadsStoredRow(t *testing.T) {
	stored := domain.DefaultSettings()
	stored.BaseXPRequired = 200
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(&stored, nil).Once()
	s := NewStore(repo)

	got, err := s.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 200, got.BaseXPRequired)
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything)
}

func TestGet_RepositoryFailure(t *testing.T) {
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(nil, errors.New("db down"))
	s := NewStore(repo)

	_, err := s.Get(context.Background())

	assert.ErrorIs(t, err, domain.ErrOperationFailed)
}

func TestUpdate_ValidatesBeforeSaving(t *testing.T) {
	stored := domain.DefaultSettings()
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(&stored, nil).Once()
	s := NewStore(repo)

	cases := map[string]func(*domain.Settings){
		"xp per message below one": func(st *domain.Settings) { st.XPPerMessage = 0 },
		"base xp below one":        func(st *domain.Settings) { st.BaseXPRequired = 0 },
		"min above max":            func(st *domain.Settings) { st.MinXPPerMessage, st.MaxXPPerMessage = 20, 10 },
		"negative voice coins":     func(st *domain.Settings) { st.VoiceActiveCoins = -1 },
		"zero event multiplier":    func(st *domain.Settings) { st.EventXPMultiplier = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := s.Update(context.Background(), mutate)

			assert.ErrorIs(t, err, domain.ErrInvalidSettings)
			assert.Equal(t, stored, got, "snapshot stays untouched")
		})
	}
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything)
}

func TestUpdate_SwapsSnapshotAfterSave(t *testing.T) {
	stored := domain.DefaultSettings()
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(&stored, nil).Once()
	repo.On("SaveSettings", mock.Anything, mock.MatchedBy(func(s domain.Settings) bool {
		return s.CoinsPerLevel == 50
	})).Return(nil).Once()
	s := NewStore(repo)

	got, err := s.Update(context.Background(), func(st *domain.Settings) { st.CoinsPerLevel = 50 })
	require.NoError(t, err)
	assert.Equal(t, 50, got.CoinsPerLevel)

	current, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, current.CoinsPerLevel)
	repo.AssertExpectations(t)
}

func TestUpdate_SaveFailureKeepsOldSnapshot(t *testing.T) {
	stored := domain.DefaultSettings()
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(&stored, nil).Once()
	repo.On("SaveSettings", mock.Anything, mock.Anything).Return(errors.New("write failed"))
	s := NewStore(repo)

	_, err := s.SetXPEnabled(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrOperationFailed)

	current, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, current.XPEnabled)
}

func TestUpdate_ConcurrentWritesAreNotLost(t *testing.T) {
	stored := domain.DefaultSettings()
	stored.CoinsPerLevel = 0
	repo := new(MockSettingsRepository)
	repo.On("GetSettings", mock.Anything).Return(&stored, nil).Once()
	repo.On("SaveSettings", mock.Anything, mock.Anything).Return(nil)
	s := NewStore(repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(context.Background(), func(st *domain.Settings) { st.CoinsPerLevel++ })
		}()
	}
	wg.Wait()

	current, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, current.CoinsPerLevel)
}

func TestPatch_Apply(t *testing.T) {
	st := domain.DefaultSettings()
	enabled := false
	cooldown := 0
	mult := 2.0

	Patch{XPEnabled: &enabled, XPCooldownSeconds: &cooldown, EventCoinMultiplier: &mult}.Apply(&st)

	assert.False(t, st.XPEnabled)
	assert.Equal(t, 0, st.XPCooldownSeconds)
	assert.InDelta(t, 2.0, st.EventCoinMultiplier, 0.0001)
	assert.Equal(t, 75, st.BaseXPRequired, "unset fields are untouched")
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{XPCooldownSeconds: &cooldown}.IsEmpty())
}
