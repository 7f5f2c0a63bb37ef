package investment

import (
	"context"
	"math"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/metrics"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

// UpdateProperties decays maintenance, accrues income and rolls risk events
// for every owned property. Each property commits on its own, so one failure
// does not undo the rest of the sweep.
func (s *service) UpdateProperties(ctx context.Context) (*TickSummary, error) {
	log := logger.FromContext(ctx)
	start := s.now()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, TickLockKey)
		if err != nil {
			log.Error(ErrMsgTickLock, "error", err)
			return nil, operationFailed(ErrMsgTickLock, err)
		}
		if !ok {
			log.Info(LogMsgTickSkipped)
			return &TickSummary{Skipped: true}, nil
		}
		defer release()
	}

	userIDs, err := s.repo.GetInvestorIDs(ctx)
	if err != nil {
		log.Error(ErrMsgLoadInvestors, "error", err)
		return nil, operationFailed(ErrMsgLoadInvestors, err)
	}
	log.Info(LogMsgTickStarted, "users", len(userIDs))

	summary := &TickSummary{}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if income := s.tickUser(ctx, userID, summary); income > 0 {
			summary.UsersWithIncome++
		}
	}

	elapsed := s.now().Sub(start)
	metrics.TickDuration.Observe(elapsed.Seconds())
	log.Info(LogMsgTickCompleted,
		"properties", summary.PropertiesProcessed,
		"users_with_income", summary.UsersWithIncome,
		"income_added", summary.IncomeAdded,
		"risk_events", summary.RiskEvents,
		"failures", summary.Failures,
		"duration", elapsed.Round(time.Millisecond))

	s.publish(ctx, event.NewTickCompletedEvent(domain.TickSummaryPayload{
		PropertiesProcessed: summary.PropertiesProcessed,
		UsersWithIncome:     summary.UsersWithIncome,
		IncomeAdded:         summary.IncomeAdded,
		RiskEvents:          summary.RiskEvents,
		Failures:            summary.Failures,
	}))
	return summary, nil
}

// tickUser sweeps one user's properties under their lock and returns the
// income added across them
func (s *service) tickUser(ctx context.Context, userID string, summary *TickSummary) float64 {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(userID)
	defer unlock()

	invs, err := s.repo.GetInvestments(ctx, userID)
	if err != nil {
		log.Error(ErrMsgLoadInvestments, "user_id", userID, "error", err)
		summary.Failures++
		return 0
	}

	var userIncome float64
	for _, stale := range invs {
		summary.PropertiesProcessed++
		income, hit, err := s.tickOne(ctx, userID, stale.PropertyName)
		if err != nil {
			log.Error(LogMsgTickFailed, "user_id", userID, "property", stale.PropertyName, "error", err)
			summary.Failures++
			continue
		}
		userIncome += income
		summary.IncomeAdded += income
		if hit != nil {
			summary.RiskEvents++
			log.Info(LogMsgRiskEvent, "user_id", userID, "property", hit.PropertyName, "event", hit.RiskEventType)
			s.publish(ctx, event.NewRiskEventTriggered(domain.RiskEventPayload{
				UserID:       userID,
				PropertyName: hit.PropertyName,
				EventType:    hit.RiskEventType,
				Maintenance:  hit.Maintenance,
			}))
		}
	}
	return userIncome
}

// tickOne reloads a property with a row lock, advances it and commits.
// The caller already holds the user's lock.
func (s *service) tickOne(ctx context.Context, userID, property string) (float64, *domain.Investment, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer repository.SafeRollback(ctx, tx)

	inv, err := tx.GetInvestmentForUpdate(ctx, userID, property)
	if err != nil {
		return 0, nil, err
	}
	if inv.RiskEvent {
		return 0, nil, nil
	}
	entry, ok := s.catalog.Lookup(property)
	if !ok {
		logger.FromContext(ctx).Warn(LogMsgUnknownProperty, "user_id", userID, "property", property)
		return 0, nil, nil
	}

	income := s.advance(inv, entry, s.now().Unix())
	if err := tx.UpdateInvestment(ctx, inv); err != nil {
		return 0, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, nil, err
	}

	if inv.RiskEvent {
		return income, inv, nil
	}
	return income, nil, nil
}

// advance applies the elapsed hours since LastUpdate to inv and returns
// the income added. Only whole hours accrue income; the fraction is dropped.
func (s *service) advance(inv *domain.Investment, entry domain.PropertyCatalogEntry, now int64) float64 {
	hours := math.Max(0, float64(now-inv.LastUpdate)/domain.SecondsPerHour)

	inv.Maintenance = math.Max(0, inv.Maintenance-entry.MaintenanceDecay*hours)

	var income float64
	if inv.Maintenance >= domain.IncomeMaintenanceFloor {
		if whole := math.Floor(hours); whole >= 1 {
			before := inv.AccumulatedIncome
			inv.AccumulatedIncome = math.Min(float64(entry.MaxAccumulation), before+whole*float64(entry.HourlyIncome))
			income = math.Max(0, inv.AccumulatedIncome-before)
		}
	}

	if inv.Maintenance < domain.RiskMaintenanceThreshold {
		chance := entry.RiskFactor * (1 - inv.Maintenance/100) * hours / domain.RiskWindowHours
		if s.rnd() < chance {
			inv.RiskEvent = true
			inv.RiskEventType = s.riskLabel(entry)
		}
	}

	inv.LastUpdate = now
	return income
}

func (s *service) riskLabel(entry domain.PropertyCatalogEntry) string {
	if len(entry.RiskEvents) == 0 {
		return domain.DefaultRiskEventLabel
	}
	return entry.RiskEvents[s.rndInt(0, len(entry.RiskEvents)-1)]
}

// NeedsAttention lists, per user, properties below the risk threshold and
// properties waiting for repair
func (s *service) NeedsAttention(ctx context.Context) ([]Attention, error) {
	userIDs, err := s.repo.GetInvestorIDs(ctx)
	if err != nil {
		return nil, s.repoErr(ctx, ErrMsgLoadInvestors, err)
	}

	var out []Attention
	for _, userID := range userIDs {
		invs, err := s.repo.GetInvestments(ctx, userID)
		if err != nil {
			return nil, s.repoErr(ctx, ErrMsgLoadInvestments, err)
		}
		a := Attention{UserID: userID}
		for _, inv := range invs {
			switch {
			case inv.RiskEvent:
				a.RiskEvents = append(a.RiskEvents, inv.PropertyName)
			case inv.Maintenance < domain.RiskMaintenanceThreshold:
				a.LowMaintenance = append(a.LowMaintenance, inv.PropertyName)
			}
		}
		if len(a.RiskEvents) > 0 || len(a.LowMaintenance) > 0 {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *service) ResetAllAccumulated(ctx context.Context) (*ResetSummary, error) {
	users, properties, err := s.repo.ResetAccumulatedIncome(ctx)
	if err != nil {
		return nil, s.repoErr(ctx, ErrMsgResetIncome, err)
	}
	logger.FromContext(ctx).Info(LogMsgIncomeReset, "users", users, "properties", properties)
	return &ResetSummary{Users: users, Properties: properties}, nil
}
