package investment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/concurrency"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/metrics"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
	"github.com/osse101/CommunityEconomy_Go/internal/utils"
)

// Service defines the property investment business logic
type Service interface {
	// Single-property actions
	Purchase(ctx context.Context, userID, property string) (*Outcome, error)
	Sell(ctx context.Context, userID, property string) (*Outcome, error)
	Maintain(ctx context.Context, userID, property string) (*Outcome, error)
	Repair(ctx context.Context, userID, property string) (*Outcome, error)
	Collect(ctx context.Context, userID, property string) (*Outcome, error)

	// Portfolio-wide actions
	CollectAll(ctx context.Context, userID string) (*CollectAllResult, error)
	MaintainAll(ctx context.Context, userID string) (*MaintainAllResult, error)

	// Reads
	Portfolio(ctx context.Context, userID string) (*Portfolio, error)
	Catalog() []domain.PropertyCatalogEntry
	NeedsAttention(ctx context.Context) ([]Attention, error)

	// Background and admin
	UpdateProperties(ctx context.Context) (*TickSummary, error)
	ResetAllAccumulated(ctx context.Context) (*ResetSummary, error)
}

type service struct {
	repo    repository.Investment
	locker  repository.Locker
	locks   *concurrency.LockManager
	bus     event.Bus
	catalog domain.PropertyCatalog

	now    func() time.Time
	rnd    func() float64
	rndInt func(min, max int) int
}

// NewService creates a new investment service. locks must be the manager the
// progression engine uses so coin updates on one user serialize. locker may
// be nil for single-replica deployments.
func NewService(repo repository.Investment, locker repository.Locker, locks *concurrency.LockManager, bus event.Bus, catalog domain.PropertyCatalog) Service {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	if catalog == nil {
		catalog = domain.DefaultPropertyCatalog()
	}
	return &service{
		repo:    repo,
		locker:  locker,
		locks:   locks,
		bus:     bus,
		catalog: catalog,
		now:     time.Now,
		rnd:     utils.RandomFloat,
		rndInt:  utils.RandomInt,
	}
}

func (s *service) Catalog() []domain.PropertyCatalogEntry {
	return s.catalog.Entries()
}

func (s *service) Purchase(ctx context.Context, userID, property string) (*Outcome, error) {
	out, err := s.purchase(ctx, userID, property)
	metrics.RecordInvestmentAction(ActionPurchase, err)
	return out, err
}

func (s *service) purchase(ctx context.Context, userID, property string) (*Outcome, error) {
	entry, err := s.lookup(userID, property)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	out := &Outcome{Action: ActionPurchase, Property: property, Amount: entry.Price}
	err = s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		_, err := tx.GetInvestmentForUpdate(ctx, userID, property)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrPropertyAlreadyOwned, property)
		case !errors.Is(err, domain.ErrPropertyNotOwned):
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}

		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}
		if err := requireFunds(acc, entry.Price); err != nil {
			return err
		}

		inv := domain.NewInvestment(userID, property, now)
		if err := tx.InsertInvestment(ctx, inv); err != nil {
			return s.repoErr(ctx, ErrMsgSaveInvestment, err)
		}
		out.Balance = utils.RoundTo(acc.Coins-float64(entry.Price), 2)
		if err := tx.UpdateCoins(ctx, userID, out.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		out.Investment = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgPurchased, "user_id", userID, "property", property, "price", entry.Price)
	return out, nil
}

func (s *service) Sell(ctx context.Context, userID, property string) (*Outcome, error) {
	out, err := s.sell(ctx, userID, property)
	metrics.RecordInvestmentAction(ActionSell, err)
	return out, err
}

func (s *service) sell(ctx context.Context, userID, property string) (*Outcome, error) {
	entry, err := s.lookup(userID, property)
	if err != nil {
		return nil, err
	}

	refund := entry.SellPrice()
	out := &Outcome{Action: ActionSell, Property: property, Amount: refund}
	err = s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		if _, err := tx.GetInvestmentForUpdate(ctx, userID, property); err != nil {
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}
		if err := tx.DeleteInvestment(ctx, userID, property); err != nil {
			return s.repoErr(ctx, ErrMsgDeleteProperty, err)
		}
		out.Balance = utils.RoundTo(acc.Coins+float64(refund), 2)
		if err := tx.UpdateCoins(ctx, userID, out.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgSold, "user_id", userID, "property", property, "refund", refund)
	return out, nil
}

func (s *service) Maintain(ctx context.Context, userID, property string) (*Outcome, error) {
	out, err := s.maintain(ctx, userID, property)
	metrics.RecordInvestmentAction(ActionMaintain, err)
	return out, err
}

func (s *service) maintain(ctx context.Context, userID, property string) (*Outcome, error) {
	entry, err := s.lookup(userID, property)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Action: ActionMaintain, Property: property, Amount: entry.MaintenanceCost}
	err = s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		inv, err := tx.GetInvestmentForUpdate(ctx, userID, property)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		if inv.RiskEvent {
			return fmt.Errorf("%w: repair %s before maintaining it", domain.ErrRiskEventActive, property)
		}
		if inv.Maintenance >= domain.MaxMaintenance {
			return fmt.Errorf("%w: %s", domain.ErrMaintenanceFull, property)
		}

		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}
		if err := requireFunds(acc, entry.MaintenanceCost); err != nil {
			return err
		}

		out.MaintenanceGain = s.applyMaintenance(inv)
		if err := tx.UpdateInvestment(ctx, inv); err != nil {
			return s.repoErr(ctx, ErrMsgSaveInvestment, err)
		}
		out.Balance = utils.RoundTo(acc.Coins-float64(entry.MaintenanceCost), 2)
		if err := tx.UpdateCoins(ctx, userID, out.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		out.Investment = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgMaintained, "user_id", userID, "property", property,
		"gain", out.MaintenanceGain, "maintenance", out.Investment.Maintenance)
	return out, nil
}

func (s *service) Repair(ctx context.Context, userID, property string) (*Outcome, error) {
	out, err := s.repair(ctx, userID, property)
	metrics.RecordInvestmentAction(ActionRepair, err)
	return out, err
}

func (s *service) repair(ctx context.Context, userID, property string) (*Outcome, error) {
	entry, err := s.lookup(userID, property)
	if err != nil {
		return nil, err
	}

	cost := entry.RepairCost()
	out := &Outcome{Action: ActionRepair, Property: property, Amount: cost}
	err = s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		inv, err := tx.GetInvestmentForUpdate(ctx, userID, property)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		if !inv.RiskEvent {
			return fmt.Errorf("%w: %s", domain.ErrNoRiskEvent, property)
		}

		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}
		if err := requireFunds(acc, cost); err != nil {
			return err
		}

		inv.RiskEvent = false
		inv.RiskEventType = ""
		inv.Maintenance = domain.RepairedMaintenance
		if err := tx.UpdateInvestment(ctx, inv); err != nil {
			return s.repoErr(ctx, ErrMsgSaveInvestment, err)
		}
		out.Balance = utils.RoundTo(acc.Coins-float64(cost), 2)
		if err := tx.UpdateCoins(ctx, userID, out.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		out.Investment = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgRepaired, "user_id", userID, "property", property, "cost", cost)
	return out, nil
}

func (s *service) Collect(ctx context.Context, userID, property string) (*Outcome, error) {
	out, err := s.collect(ctx, userID, property)
	metrics.RecordInvestmentAction(ActionCollect, err)
	return out, err
}

func (s *service) collect(ctx context.Context, userID, property string) (*Outcome, error) {
	if _, err := s.lookup(userID, property); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	out := &Outcome{Action: ActionCollect, Property: property}
	cleared := false
	err := s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		inv, err := tx.GetInvestmentForUpdate(ctx, userID, property)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		if inv.RiskEvent {
			return fmt.Errorf("%w: repair %s before collecting", domain.ErrRiskEventActive, property)
		}
		if remaining := inv.CollectCooldownRemaining(now); remaining > 0 {
			return fmt.Errorf("%w: wait %d more minutes", domain.ErrCollectCooldown, remaining/60)
		}
		if inv.AccumulatedIncome < 1 {
			if inv.AccumulatedIncome == 0 {
				return fmt.Errorf("%w: %s", domain.ErrNothingToCollect, property)
			}
			// the remainder is dropped and the reset is committed
			inv.AccumulatedIncome = 0
			cleared = true
			if err := tx.UpdateInvestment(ctx, inv); err != nil {
				return s.repoErr(ctx, ErrMsgSaveInvestment, err)
			}
			return nil
		}

		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}

		out.Amount = takeIncome(inv, now)
		if err := tx.UpdateInvestment(ctx, inv); err != nil {
			return s.repoErr(ctx, ErrMsgSaveInvestment, err)
		}
		out.Balance = utils.RoundTo(acc.Coins+float64(out.Amount), 2)
		if err := tx.UpdateCoins(ctx, userID, out.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		out.Investment = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cleared {
		logger.FromContext(ctx).Debug(LogMsgFractionCleared, "user_id", userID, "property", property)
		return nil, fmt.Errorf("%w: %s", domain.ErrNothingToCollect, property)
	}

	logger.FromContext(ctx).Info(LogMsgCollected, "user_id", userID, "property", property, "amount", out.Amount)
	s.publish(ctx, event.NewIncomeCollectedEvent(domain.IncomeCollectedPayload{
		UserID:     userID,
		Properties: []string{property},
		Amount:     out.Amount,
	}))
	return out, nil
}

func (s *service) CollectAll(ctx context.Context, userID string) (*CollectAllResult, error) {
	res, err := s.collectAll(ctx, userID)
	metrics.RecordInvestmentAction(ActionCollectAll, err)
	return res, err
}

func (s *service) collectAll(ctx context.Context, userID string) (*CollectAllResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	now := s.now().Unix()
	res := &CollectAllResult{}
	var rejection error
	err := s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		invs, err := tx.GetInvestmentsForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		if len(invs) == 0 {
			return domain.ErrNoProperties
		}

		for _, inv := range invs {
			if inv.RiskEvent {
				continue
			}
			if inv.AccumulatedIncome < 1 {
				if inv.AccumulatedIncome > 0 {
					inv.AccumulatedIncome = 0
					if err := tx.UpdateInvestment(ctx, inv); err != nil {
						return s.repoErr(ctx, ErrMsgSaveInvestment, err)
					}
				}
				continue
			}
			if inv.CollectCooldownRemaining(now) > 0 {
				continue
			}

			res.Total += takeIncome(inv, now)
			res.Properties = append(res.Properties, inv.PropertyName)
			if err := tx.UpdateInvestment(ctx, inv); err != nil {
				return s.repoErr(ctx, ErrMsgSaveInvestment, err)
			}
		}

		if res.Total <= 0 {
			// fractional resets above still commit
			rejection = nothingCollected(invs, now)
			return nil
		}

		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}
		res.Balance = utils.RoundTo(acc.Coins+float64(res.Total), 2)
		if err := tx.UpdateCoins(ctx, userID, res.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		res.HourlyRate = HourlyRate(invs, s.catalog)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rejection != nil {
		return nil, rejection
	}

	logger.FromContext(ctx).Info(LogMsgCollected, "user_id", userID, "properties", len(res.Properties), "amount", res.Total)
	s.publish(ctx, event.NewIncomeCollectedEvent(domain.IncomeCollectedPayload{
		UserID:     userID,
		Properties: res.Properties,
		Amount:     res.Total,
	}))
	return res, nil
}

func (s *service) MaintainAll(ctx context.Context, userID string) (*MaintainAllResult, error) {
	res, err := s.maintainAll(ctx, userID)
	metrics.RecordInvestmentAction(ActionMaintainAll, err)
	return res, err
}

func (s *service) maintainAll(ctx context.Context, userID string) (*MaintainAllResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	res := &MaintainAllResult{}
	err := s.inTx(ctx, userID, func(tx repository.InvestmentTx) error {
		invs, err := tx.GetInvestmentsForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		if len(invs) == 0 {
			return domain.ErrNoProperties
		}

		var targets []*domain.Investment
		for _, inv := range invs {
			if inv.RiskEvent || inv.Maintenance >= domain.MaintainAllThreshold {
				continue
			}
			entry, ok := s.catalog.Lookup(inv.PropertyName)
			if !ok {
				continue
			}
			targets = append(targets, inv)
			res.TotalCost += entry.MaintenanceCost
		}
		if len(targets) == 0 {
			return domain.ErrNothingToMaintain
		}

		acc, err := tx.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return s.repoErr(ctx, ErrMsgLoadAccount, err)
		}
		if err := requireFunds(acc, res.TotalCost); err != nil {
			return err
		}

		for _, inv := range targets {
			s.applyMaintenance(inv)
			if err := tx.UpdateInvestment(ctx, inv); err != nil {
				return s.repoErr(ctx, ErrMsgSaveInvestment, err)
			}
			res.Maintained = append(res.Maintained, inv.PropertyName)
		}
		res.Balance = utils.RoundTo(acc.Coins-float64(res.TotalCost), 2)
		if err := tx.UpdateCoins(ctx, userID, res.Balance); err != nil {
			return s.repoErr(ctx, ErrMsgUpdateCoins, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgMaintainedAll, "user_id", userID, "properties", len(res.Maintained), "cost", res.TotalCost)
	return res, nil
}

func (s *service) Portfolio(ctx context.Context, userID string) (*Portfolio, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	invs, err := s.repo.GetInvestments(ctx, userID)
	if err != nil {
		return nil, s.repoErr(ctx, ErrMsgLoadInvestments, err)
	}

	now := s.now().Unix()
	p := &Portfolio{UserID: userID, Items: make([]PortfolioItem, 0, len(invs))}
	for _, inv := range invs {
		entry, ok := s.catalog.Lookup(inv.PropertyName)
		if !ok {
			logger.FromContext(ctx).Warn(LogMsgUnknownProperty, "user_id", userID, "property", inv.PropertyName)
			continue
		}
		p.Items = append(p.Items, projectItem(inv, entry, now))
		p.TotalAccumulated += inv.AccumulatedIncome
	}
	p.HourlyRate = HourlyRate(invs, s.catalog)
	return p, nil
}

// inTx runs fn in one transaction under the user's lock and commits on success
func (s *service) inTx(ctx context.Context, userID string, fn func(tx repository.InvestmentTx) error) error {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(userID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.Error(ErrMsgBeginTx, "error", err)
		return operationFailed(ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		log.Error(ErrMsgCommitTx, "user_id", userID, "error", err)
		return operationFailed(ErrMsgCommitTx, err)
	}
	return nil
}

func (s *service) lookup(userID, property string) (domain.PropertyCatalogEntry, error) {
	if userID == "" {
		return domain.PropertyCatalogEntry{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	entry, ok := s.catalog.Lookup(property)
	if !ok {
		return domain.PropertyCatalogEntry{}, fmt.Errorf("%w: %q", domain.ErrUnknownProperty, property)
	}
	return entry, nil
}

// repoErr passes rejections from the repository through and wraps the rest
func (s *service) repoErr(ctx context.Context, msg string, err error) error {
	if domain.IsRejection(err) {
		return err
	}
	logger.FromContext(ctx).Error(msg, "error", err)
	return operationFailed(msg, err)
}

// applyMaintenance raises maintenance by a random boost, capped at full,
// and returns the gain actually applied
func (s *service) applyMaintenance(inv *domain.Investment) float64 {
	boost := utils.RandomUniform(s.rnd, domain.MaintenanceBoostMin, domain.MaintenanceBoostMax)
	before := inv.Maintenance
	inv.Maintenance = math.Min(domain.MaxMaintenance, before+boost)
	return inv.Maintenance - before
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// takeIncome empties the accumulation and returns the whole coins collected
func takeIncome(inv *domain.Investment, now int64) int {
	amount := utils.FloorInt(inv.AccumulatedIncome)
	inv.AccumulatedIncome = 0
	inv.LastCollect = now
	inv.LastUpdate = now
	return amount
}

func nothingCollected(invs []*domain.Investment, now int64) error {
	var waits []string
	for _, inv := range invs {
		if inv.RiskEvent {
			continue
		}
		if remaining := inv.CollectCooldownRemaining(now); remaining > 0 {
			waits = append(waits, fmt.Sprintf("%s: %d minutes remaining", inv.PropertyName, remaining/60))
		}
	}
	if len(waits) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrCollectCooldown, strings.Join(waits, ", "))
	}
	return domain.ErrNothingToCollect
}

func requireFunds(acc *domain.Account, cost int) error {
	if acc.Coins < float64(cost) {
		return fmt.Errorf("%w: %s coins required, balance is %s",
			domain.ErrInsufficientFunds, utils.FormatInt(cost), utils.FormatCoins(acc.Coins))
	}
	return nil
}

func operationFailed(msg string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrOperationFailed, msg, err)
}
