package progression

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/concurrency"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
)

var fixedNow = time.Unix(1_700_000_000, 0)

// fakeAccountRepo keeps accounts in memory; writes only land on commit
type fakeAccountRepo struct {
	mu               sync.Mutex
	accounts         map[string]*domain.Account
	updateErr        error
	lastLeaderboardN int
}

var (
	_ repository.Account   = (*fakeAccountRepo)(nil)
	_ repository.AccountTx = (*fakeAccountTx)(nil)
)

func newFakeAccountRepo(accounts ...*domain.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		r.accounts[a.UserID] = a.Clone()
	}
	return r
}

func (r *fakeAccountRepo) stored(userID string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[userID]; ok {
		return a.Clone()
	}
	return nil
}

func (r *fakeAccountRepo) GetAccount(_ context.Context, userID string) (*domain.Account, error) {
	if a := r.stored(userID); a != nil {
		return a, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeAccountRepo) GetLeaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLeaderboardN = limit

	all := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Prestige != b.Prestige {
			return a.Prestige > b.Prestige
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.XP > b.XP
	})
	if len(all) > limit {
		all = all[:limit]
	}
	entries := make([]domain.LeaderboardEntry, len(all))
	for i, a := range all {
		entries[i] = domain.LeaderboardEntry{UserID: a.UserID, Username: a.Username, XP: a.XP, Level: a.Level, Coins: a.Coins, Prestige: a.Prestige}
	}
	return entries, nil
}

func (r *fakeAccountRepo) BeginTx(_ context.Context) (repository.AccountTx, error) {
	return &fakeAccountTx{repo: r, pending: make(map[string]*domain.Account)}, nil
}

type fakeAccountTx struct {
	repo    *fakeAccountRepo
	pending map[string]*domain.Account
	done    bool
}

func (t *fakeAccountTx) GetOrCreateAccount(_ context.Context, userID, username string) (*domain.Account, error) {
	if a := t.repo.stored(userID); a != nil {
		if username != "" {
			a.Username = username
		}
		return a, nil
	}
	return domain.NewAccount(userID, username), nil
}

func (t *fakeAccountTx) GetAccountForUpdate(_ context.Context, userID string) (*domain.Account, error) {
	if a := t.repo.stored(userID); a != nil {
		return a, nil
	}
	return nil, domain.ErrUserNotFound
}

func (t *fakeAccountTx) UpdateAccount(_ context.Context, account *domain.Account) error {
	if t.repo.updateErr != nil {
		return t.repo.updateErr
	}
	t.pending[account.UserID] = account.Clone()
	return nil
}

func (t *fakeAccountTx) Commit(_ context.Context) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for id, a := range t.pending {
		t.repo.accounts[id] = a
	}
	t.done = true
	return nil
}

func (t *fakeAccountTx) Rollback(_ context.Context) error {
	t.pending = nil
	return nil
}

// staticStore serves a fixed settings snapshot
type staticStore struct {
	st domain.Settings
}

var _ settings.Store = (*staticStore)(nil)

func (s *staticStore) Get(context.Context) (domain.Settings, error) { return s.st, nil }

func (s *staticStore) Update(_ context.Context, mutate func(*domain.Settings)) (domain.Settings, error) {
	mutate(&s.st)
	return s.st, nil
}

func (s *staticStore) SetXPEnabled(_ context.Context, enabled bool) (domain.Settings, error) {
	s.st.XPEnabled = enabled
	return s.st, nil
}

func (s *staticStore) EnsureDefaults(context.Context) error { return nil }

// staticResolver returns the same boost set for every user
type staticResolver struct {
	set domain.PerkBoostSet
	err error
}

func (r staticResolver) Resolve(context.Context, string) (domain.PerkBoostSet, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.set == nil {
		return domain.NewPerkBoostSet(), nil
	}
	return r.set, nil
}

// recordingBus captures published events
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(_ context.Context, evt event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) ofType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// testSettings turns off random message XP so awards are deterministic
func testSettings() domain.Settings {
	st := domain.DefaultSettings()
	st.MinXPPerMessage = 0
	st.MaxXPPerMessage = 0
	return st
}

type fixture struct {
	svc   *service
	repo  *fakeAccountRepo
	store *staticStore
	bus   *recordingBus
	clock *time.Time
}

func newFixture(boosts domain.PerkBoostSet, accounts ...*domain.Account) *fixture {
	repo := newFakeAccountRepo(accounts...)
	store := &staticStore{st: testSettings()}
	bus := &recordingBus{}
	clock := fixedNow

	svc := NewService(repo, store, staticResolver{set: boosts}, concurrency.NewLockManager(), bus).(*service)
	f := &fixture{svc: svc, repo: repo, store: store, bus: bus, clock: &clock}
	svc.now = func() time.Time { return *f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func intPtr(v int) *int { return &v }
