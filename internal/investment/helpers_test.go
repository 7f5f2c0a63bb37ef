package investment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/concurrency"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func invKey(userID, property string) string { return userID + "/" + property }

// fakeInvestmentRepo holds accounts and investments in memory.
// A transaction stages writes and applies them on commit.
type fakeInvestmentRepo struct {
	mu          sync.Mutex
	coins       map[string]float64
	investments map[string]*domain.Investment

	updateCoinsErr error
}

var (
	_ repository.Investment   = (*fakeInvestmentRepo)(nil)
	_ repository.InvestmentTx = (*fakeInvestmentTx)(nil)
	_ repository.Locker       = (*fakeLocker)(nil)
)

func newFakeInvestmentRepo() *fakeInvestmentRepo {
	return &fakeInvestmentRepo{
		coins:       make(map[string]float64),
		investments: make(map[string]*domain.Investment),
	}
}

func (r *fakeInvestmentRepo) withAccount(userID string, coins float64) *fakeInvestmentRepo {
	r.coins[userID] = coins
	return r
}

func (r *fakeInvestmentRepo) withInvestment(inv *domain.Investment) *fakeInvestmentRepo {
	r.investments[invKey(inv.UserID, inv.PropertyName)] = inv.Clone()
	return r
}

func (r *fakeInvestmentRepo) balance(userID string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coins[userID]
}

func (r *fakeInvestmentRepo) investment(userID, property string) *domain.Investment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.investments[invKey(userID, property)]; ok {
		return inv.Clone()
	}
	return nil
}

func (r *fakeInvestmentRepo) userInvestments(userID string) []*domain.Investment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Investment
	for _, inv := range r.investments {
		if inv.UserID == userID {
			out = append(out, inv.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PropertyName < out[j].PropertyName })
	return out
}

func (r *fakeInvestmentRepo) GetInvestments(_ context.Context, userID string) ([]*domain.Investment, error) {
	return r.userInvestments(userID), nil
}

func (r *fakeInvestmentRepo) GetInvestorIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var ids []string
	for _, inv := range r.investments {
		if !seen[inv.UserID] {
			seen[inv.UserID] = true
			ids = append(ids, inv.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeInvestmentRepo) ResetAccumulatedIncome(_ context.Context) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make(map[string]bool)
	props := 0
	for _, inv := range r.investments {
		if inv.AccumulatedIncome > 0 {
			inv.AccumulatedIncome = 0
			users[inv.UserID] = true
			props++
		}
	}
	return len(users), props, nil
}

func (r *fakeInvestmentRepo) BeginTx(_ context.Context) (repository.InvestmentTx, error) {
	return &fakeInvestmentTx{
		repo:    r,
		coins:   make(map[string]float64),
		upserts: make(map[string]*domain.Investment),
		deletes: make(map[string]bool),
	}, nil
}

type fakeInvestmentTx struct {
	repo    *fakeInvestmentRepo
	coins   map[string]float64
	upserts map[string]*domain.Investment
	deletes map[string]bool
}

func (t *fakeInvestmentTx) GetAccountForUpdate(_ context.Context, userID string) (*domain.Account, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	coins, ok := t.repo.coins[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	acc := domain.NewAccount(userID, "")
	acc.Coins = coins
	return acc, nil
}

func (t *fakeInvestmentTx) UpdateCoins(_ context.Context, userID string, coins float64) error {
	if t.repo.updateCoinsErr != nil {
		return t.repo.updateCoinsErr
	}
	t.coins[userID] = coins
	return nil
}

func (t *fakeInvestmentTx) GetInvestmentsForUpdate(_ context.Context, userID string) ([]*domain.Investment, error) {
	return t.repo.userInvestments(userID), nil
}

func (t *fakeInvestmentTx) GetInvestmentForUpdate(_ context.Context, userID, propertyName string) (*domain.Investment, error) {
	if inv := t.repo.investment(userID, propertyName); inv != nil {
		return inv, nil
	}
	return nil, domain.ErrPropertyNotOwned
}

func (t *fakeInvestmentTx) InsertInvestment(_ context.Context, inv *domain.Investment) error {
	if t.repo.investment(inv.UserID, inv.PropertyName) != nil {
		return domain.ErrPropertyAlreadyOwned
	}
	t.upserts[invKey(inv.UserID, inv.PropertyName)] = inv.Clone()
	return nil
}

func (t *fakeInvestmentTx) UpdateInvestment(_ context.Context, inv *domain.Investment) error {
	t.upserts[invKey(inv.UserID, inv.PropertyName)] = inv.Clone()
	return nil
}

func (t *fakeInvestmentTx) DeleteInvestment(_ context.Context, userID, propertyName string) error {
	if t.repo.investment(userID, propertyName) == nil {
		return domain.ErrPropertyNotOwned
	}
	t.deletes[invKey(userID, propertyName)] = true
	return nil
}

func (t *fakeInvestmentTx) Commit(_ context.Context) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for id, c := range t.coins {
		t.repo.coins[id] = c
	}
	for k, inv := range t.upserts {
		t.repo.investments[k] = inv
	}
	for k := range t.deletes {
		delete(t.repo.investments, k)
	}
	return nil
}

func (t *fakeInvestmentTx) Rollback(_ context.Context) error {
	t.coins, t.upserts, t.deletes = nil, nil, nil
	return nil
}

type fakeLocker struct {
	held bool
}

func (l *fakeLocker) TryLock(context.Context, int64) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() { l.held = false }, true, nil
}

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

func (b *recordingBus) count(t event.Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	svc   *service
	repo  *fakeInvestmentRepo
	bus   *recordingBus
	clock *time.Time
}

func newFixture(repo *fakeInvestmentRepo) *fixture {
	bus := &recordingBus{}
	clock := fixedNow
	svc := NewService(repo, &fakeLocker{}, concurrency.NewLockManager(), bus, domain.DefaultPropertyCatalog()).(*service)
	f := &fixture{svc: svc, repo: repo, bus: bus, clock: &clock}
	svc.now = func() time.Time { return *f.clock }
	svc.rnd = func() float64 { return 0.5 }
	svc.rndInt = func(min, _ int) int { return min }
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

// owned returns an investment bought an age ago with the given state
func owned(userID, property string, age time.Duration) *domain.Investment {
	t := fixedNow.Add(-age).Unix()
	return domain.NewInvestment(userID, property, t)
}
