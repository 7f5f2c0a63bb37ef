package investment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
)

const (
	grocery    = "Grocery Store"
	shop       = "Shop"
	restaurant = "Restaurant"
)

func TestPurchaseSell_RoundTrip(t *testing.T) {
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 2000))
	ctx := context.Background()

	out, err := f.svc.Purchase(ctx, "u1", grocery)
	require.NoError(t, err)
	assert.Equal(t, 1000, out.Amount)
	assert.Equal(t, 1000.0, out.Balance)

	inv := f.repo.investment("u1", grocery)
	require.NotNil(t, inv)
	assert.Equal(t, 100.0, inv.Maintenance)
	assert.Zero(t, inv.AccumulatedIncome)
	assert.Equal(t, fixedNow.Unix(), inv.PurchaseTime)
	assert.Equal(t, fixedNow.Unix(), inv.LastUpdate)
	assert.Equal(t, fixedNow.Unix(), inv.LastCollect)

	out, err = f.svc.Sell(ctx, "u1", grocery)
	require.NoError(t, err)
	assert.Equal(t, 700, out.Amount)
	assert.Equal(t, 1700.0, f.repo.balance("u1"))
	assert.Nil(t, f.repo.investment("u1", grocery))
}

func TestPurchase_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown property", func(t *testing.T) {
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 5000))
		_, err := f.svc.Purchase(ctx, "u1", "Castle")
		assert.ErrorIs(t, err, domain.ErrUnknownProperty)
	})

	t.Run("already owned", func(t *testing.T) {
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 5000).withInvestment(owned("u1", grocery, time.Hour)))
		_, err := f.svc.Purchase(ctx, "u1", grocery)
		assert.ErrorIs(t, err, domain.ErrPropertyAlreadyOwned)
		assert.Equal(t, 5000.0, f.repo.balance("u1"))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 999))
		_, err := f.svc.Purchase(ctx, "u1", grocery)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.True(t, domain.IsRejection(err))
		assert.Nil(t, f.repo.investment("u1", grocery))
	})
}

func TestSell_CreditFailureKeepsProperty(t *testing.T) {
	inv := owned("u1", grocery, 2*time.Hour)
	inv.AccumulatedIncome = 25
	repo := newFakeInvestmentRepo().withAccount("u1", 10).withInvestment(inv)
	repo.updateCoinsErr = errors.New("connection reset")
	f := newFixture(repo)

	_, err := f.svc.Sell(context.Background(), "u1", grocery)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Equal(t, 10.0, f.repo.balance("u1"))

	stored := f.repo.investment("u1", grocery)
	require.NotNil(t, stored, "property stays owned when the credit fails")
	assert.Equal(t, inv.PurchaseTime, stored.PurchaseTime)
}

func TestSell_NotOwned(t *testing.T) {
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 0))
	_, err := f.svc.Sell(context.Background(), "u1", shop)
	assert.ErrorIs(t, err, domain.ErrPropertyNotOwned)
}

func TestCollect_Cooldown(t *testing.T) {
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 1000))
	ctx := context.Background()

	_, err := f.svc.Purchase(ctx, "u1", grocery)
	require.NoError(t, err)

	_, err = f.svc.Collect(ctx, "u1", grocery)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollectCooldown)
	assert.Contains(t, err.Error(), "60 more minutes")

	f.advance(time.Hour + time.Second)
	_, err = f.svc.Collect(ctx, "u1", grocery)
	assert.ErrorIs(t, err, domain.ErrNothingToCollect)
}

func TestCollect_Success(t *testing.T) {
	inv := owned("u1", grocery, 2*time.Hour)
	inv.AccumulatedIncome = 20.7
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 5).withInvestment(inv))

	out, err := f.svc.Collect(context.Background(), "u1", grocery)
	require.NoError(t, err)

	assert.Equal(t, 20, out.Amount)
	assert.Equal(t, 25.0, out.Balance)
	stored := f.repo.investment("u1", grocery)
	assert.Zero(t, stored.AccumulatedIncome)
	assert.Equal(t, fixedNow.Unix(), stored.LastCollect)
	assert.Equal(t, fixedNow.Unix(), stored.LastUpdate)
	assert.Equal(t, 1, f.bus.count(event.IncomeCollected))
}

func TestCollect_FractionIsClearedAndPersisted(t *testing.T) {
	inv := owned("u1", grocery, 2*time.Hour)
	inv.AccumulatedIncome = 0.6
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 5).withInvestment(inv))

	_, err := f.svc.Collect(context.Background(), "u1", grocery)
	assert.ErrorIs(t, err, domain.ErrNothingToCollect)
	assert.Zero(t, f.repo.investment("u1", grocery).AccumulatedIncome)
	assert.Equal(t, 5.0, f.repo.balance("u1"))
}

func TestCollect_CreditFailureKeepsAccumulation(t *testing.T) {
	inv := owned("u1", grocery, 2*time.Hour)
	inv.AccumulatedIncome = 40
	repo := newFakeInvestmentRepo().withAccount("u1", 5).withInvestment(inv)
	repo.updateCoinsErr = errors.New("deadlock detected")
	f := newFixture(repo)

	_, err := f.svc.Collect(context.Background(), "u1", grocery)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.False(t, domain.IsRejection(err))
	assert.Equal(t, 40.0, f.repo.investment("u1", grocery).AccumulatedIncome)
	assert.Equal(t, 5.0, f.repo.balance("u1"))
}

func TestMaintain(t *testing.T) {
	ctx := context.Background()

	t.Run("raises maintenance and debits cost", func(t *testing.T) {
		inv := owned("u1", grocery, time.Hour)
		inv.Maintenance = 50
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 100).withInvestment(inv))

		out, err := f.svc.Maintain(ctx, "u1", grocery)
		require.NoError(t, err)
		assert.Equal(t, 32.5, out.MaintenanceGain)
		assert.Equal(t, 82.5, f.repo.investment("u1", grocery).Maintenance)
		assert.Equal(t, 50.0, f.repo.balance("u1"))
	})

	t.Run("caps at full", func(t *testing.T) {
		inv := owned("u1", grocery, time.Hour)
		inv.Maintenance = 90
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 100).withInvestment(inv))

		out, err := f.svc.Maintain(ctx, "u1", grocery)
		require.NoError(t, err)
		assert.Equal(t, 10.0, out.MaintenanceGain)
		assert.Equal(t, 100.0, f.repo.investment("u1", grocery).Maintenance)
	})

	t.Run("already full", func(t *testing.T) {
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 100).withInvestment(owned("u1", grocery, time.Hour)))
		_, err := f.svc.Maintain(ctx, "u1", grocery)
		assert.ErrorIs(t, err, domain.ErrMaintenanceFull)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		inv := owned("u1", grocery, time.Hour)
		inv.Maintenance = 40
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 49).withInvestment(inv))
		_, err := f.svc.Maintain(ctx, "u1", grocery)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, 40.0, f.repo.investment("u1", grocery).Maintenance)
	})
}

func TestRiskEvent_BlocksUntilRepaired(t *testing.T) {
	inv := owned("u1", grocery, 3*time.Hour)
	inv.Maintenance = 10
	inv.AccumulatedIncome = 30
	inv.RiskEvent = true
	inv.RiskEventType = "Pest infestation"
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 150).withInvestment(inv))
	ctx := context.Background()

	_, err := f.svc.Collect(ctx, "u1", grocery)
	assert.ErrorIs(t, err, domain.ErrRiskEventActive)
	_, err = f.svc.Maintain(ctx, "u1", grocery)
	assert.ErrorIs(t, err, domain.ErrRiskEventActive)

	out, err := f.svc.Repair(ctx, "u1", grocery)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Amount)
	assert.Equal(t, 50.0, f.repo.balance("u1"))

	stored := f.repo.investment("u1", grocery)
	assert.False(t, stored.RiskEvent)
	assert.Empty(t, stored.RiskEventType)
	assert.Equal(t, 50.0, stored.Maintenance)
	assert.Equal(t, inv.LastUpdate, stored.LastUpdate, "repair leaves the tick clock alone")

	_, err = f.svc.Repair(ctx, "u1", grocery)
	assert.ErrorIs(t, err, domain.ErrNoRiskEvent)

	out, err = f.svc.Collect(ctx, "u1", grocery)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Amount)
}

func TestRepair_NextTickCoversOutage(t *testing.T) {
	inv := owned("u1", grocery, 48*time.Hour)
	inv.Maintenance = 10
	inv.RiskEvent = true
	inv.RiskEventType = "Refrigeration failure"
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 1000).withInvestment(inv))
	f.svc.rnd = func() float64 { return 0.1 }
	ctx := context.Background()

	_, err := f.svc.Repair(ctx, "u1", grocery)
	require.NoError(t, err)

	f.advance(10 * time.Minute)
	_, err = f.svc.UpdateProperties(ctx)
	require.NoError(t, err)

	// ~48.2h of decay at 5/h drains the repaired 50% and rolls a new risk event
	stored := f.repo.investment("u1", grocery)
	assert.Zero(t, stored.Maintenance)
	assert.Zero(t, stored.AccumulatedIncome)
	assert.True(t, stored.RiskEvent)
	assert.Equal(t, fixedNow.Add(10*time.Minute).Unix(), stored.LastUpdate)
}

func TestRepair_InsufficientFunds(t *testing.T) {
	inv := owned("u1", shop, time.Hour)
	inv.RiskEvent = true
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 199).withInvestment(inv))

	_, err := f.svc.Repair(context.Background(), "u1", shop)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, f.repo.investment("u1", shop).RiskEvent)
}

func TestCollectAll(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates ready properties", func(t *testing.T) {
		g := owned("u1", grocery, 2*time.Hour)
		g.AccumulatedIncome = 50.9
		s := owned("u1", shop, 2*time.Hour)
		s.AccumulatedIncome = 30
		r := owned("u1", restaurant, 10*time.Minute)
		r.AccumulatedIncome = 35
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 0).withInvestment(g).withInvestment(s).withInvestment(r))

		res, err := f.svc.CollectAll(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 80, res.Total)
		assert.ElementsMatch(t, []string{grocery, shop}, res.Properties)
		assert.Equal(t, 65, res.HourlyRate)
		assert.Equal(t, 80.0, f.repo.balance("u1"))
		assert.Equal(t, 35.0, f.repo.investment("u1", restaurant).AccumulatedIncome)
	})

	t.Run("reports cooldowns when nothing is ready", func(t *testing.T) {
		r := owned("u1", restaurant, 10*time.Minute)
		r.AccumulatedIncome = 35
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 0).withInvestment(r))

		_, err := f.svc.CollectAll(ctx, "u1")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCollectCooldown)
		assert.Contains(t, err.Error(), "Restaurant: 50 minutes remaining")
	})

	t.Run("nothing to collect clears fractions", func(t *testing.T) {
		g := owned("u1", grocery, 2*time.Hour)
		g.AccumulatedIncome = 0.4
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 0).withInvestment(g))

		_, err := f.svc.CollectAll(ctx, "u1")
		assert.ErrorIs(t, err, domain.ErrNothingToCollect)
		assert.Zero(t, f.repo.investment("u1", grocery).AccumulatedIncome)
	})

	t.Run("no properties", func(t *testing.T) {
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 0))
		_, err := f.svc.CollectAll(ctx, "u1")
		assert.ErrorIs(t, err, domain.ErrNoProperties)
	})
}

func TestMaintainAll(t *testing.T) {
	ctx := context.Background()
	build := func(coins float64) *fixture {
		g := owned("u1", grocery, time.Hour)
		g.Maintenance = 50
		s := owned("u1", shop, time.Hour)
		s.Maintenance = 95
		r := owned("u1", restaurant, time.Hour)
		r.Maintenance = 80
		return newFixture(newFakeInvestmentRepo().withAccount("u1", coins).withInvestment(g).withInvestment(s).withInvestment(r))
	}

	t.Run("maintains everything below the threshold", func(t *testing.T) {
		f := build(250)

		res, err := f.svc.MaintainAll(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 200, res.TotalCost)
		assert.ElementsMatch(t, []string{grocery, restaurant}, res.Maintained)
		assert.Equal(t, 50.0, f.repo.balance("u1"))
		assert.Equal(t, 82.5, f.repo.investment("u1", grocery).Maintenance)
		assert.Equal(t, 100.0, f.repo.investment("u1", restaurant).Maintenance)
		assert.Equal(t, 95.0, f.repo.investment("u1", shop).Maintenance)
	})

	t.Run("rejects when the total is unaffordable", func(t *testing.T) {
		f := build(199)

		_, err := f.svc.MaintainAll(ctx, "u1")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, 50.0, f.repo.investment("u1", grocery).Maintenance)
	})

	t.Run("nothing to maintain", func(t *testing.T) {
		f := newFixture(newFakeInvestmentRepo().withAccount("u1", 500).withInvestment(owned("u1", grocery, time.Hour)))
		_, err := f.svc.MaintainAll(ctx, "u1")
		assert.ErrorIs(t, err, domain.ErrNothingToMaintain)
	})
}

func TestPortfolio(t *testing.T) {
	g := owned("u1", grocery, 30*time.Minute)
	g.AccumulatedIncome = 60
	s := owned("u1", shop, 2*time.Hour)
	s.RiskEvent = true
	s.RiskEventType = "Water leak"
	f := newFixture(newFakeInvestmentRepo().withAccount("u1", 0).withInvestment(g).withInvestment(s))

	p, err := f.svc.Portfolio(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, p.Items, 2)

	assert.Equal(t, 10, p.HourlyRate)
	assert.Equal(t, 60.0, p.TotalAccumulated)

	byName := map[string]PortfolioItem{}
	for _, item := range p.Items {
		byName[item.Name] = item
	}
	assert.Equal(t, "Full in 6 hours", byName[grocery].Status)
	assert.Equal(t, int64(1800), byName[grocery].CollectCooldown)
	assert.Equal(t, "Cooldown: 30m 0s remaining", byName[grocery].CollectStatus)
	assert.Equal(t, TextNeedsAttention, byName[shop].Status)
	assert.Equal(t, 200, byName[shop].RepairCost)
	assert.Equal(t, TextReadyToCollect, byName[shop].CollectStatus)
}

func TestNextIncomeText(t *testing.T) {
	entry := domain.DefaultPropertyCatalog()[grocery]
	tests := []struct {
		name string
		inv  domain.Investment
		want string
	}{
		{"at capacity", domain.Investment{Maintenance: 100, AccumulatedIncome: 120}, TextAtCapacity},
		{"low maintenance", domain.Investment{Maintenance: 20}, TextNeedsAttention},
		{"risk event", domain.Investment{Maintenance: 80, RiskEvent: true}, TextNeedsAttention},
		{"under an hour", domain.Investment{Maintenance: 80, AccumulatedIncome: 115}, "Full in 30 minutes"},
		{"hours", domain.Investment{Maintenance: 80}, "Full in 12 hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.inv
			assert.Equal(t, tt.want, NextIncomeText(&inv, entry))
		})
	}
}

func TestCatalog_OrderedByPrice(t *testing.T) {
	f := newFixture(newFakeInvestmentRepo())
	entries := f.svc.Catalog()
	require.Len(t, entries, 6)
	assert.Equal(t, grocery, entries[0].Name)
	assert.Equal(t, "Real Estate", entries[len(entries)-1].Name)
}
