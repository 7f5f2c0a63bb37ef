package worker

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// PropertyTicker is the slice of the investment engine the tick job needs
type PropertyTicker interface {
	UpdateProperties(ctx context.Context) (*investment.TickSummary, error)
	NeedsAttention(ctx context.Context) ([]investment.Attention, error)
}

// AttentionNotifier delivers maintenance reminders, e.g. as chat DMs
type AttentionNotifier interface {
	NotifyAttention(ctx context.Context, items []investment.Attention) error
}

// PropertyTickJob runs the hourly property sweep and then sends the
// maintenance reminders
type PropertyTickJob struct {
	ticker   PropertyTicker
	notifier AttentionNotifier
}

// NewPropertyTickJob creates the sweep job. notifier may be nil, in which
// case reminders are only logged.
func NewPropertyTickJob(ticker PropertyTicker, notifier AttentionNotifier) *PropertyTickJob {
	return &PropertyTickJob{ticker: ticker, notifier: notifier}
}

func (j *PropertyTickJob) Name() string { return JobNamePropertyTick }

func (j *PropertyTickJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	summary, err := j.ticker.UpdateProperties(ctx)
	if err != nil {
		return err
	}
	if summary.Skipped {
		log.Info(LogMsgTickSkipped)
		return nil
	}
	log.Info(LogMsgTickSummary,
		"properties", summary.PropertiesProcessed,
		"income_added", summary.IncomeAdded,
		"risk_events", summary.RiskEvents)

	items, err := j.ticker.NeedsAttention(ctx)
	if err != nil {
		// the sweep itself succeeded
		log.Warn(LogMsgAttentionFailed, "error", err)
		return nil
	}
	for _, a := range items {
		log.Info(LogMsgMaintenanceNotice,
			"user_id", a.UserID,
			"low_maintenance", a.LowMaintenance,
			"risk_events", a.RiskEvents)
	}
	if j.notifier != nil && len(items) > 0 {
		return j.notifier.NotifyAttention(ctx, items)
	}
	return nil
}

// BoostPurger deletes lapsed boost rows
type BoostPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// BoostPurgeJob clears expired temporary boosts
type BoostPurgeJob struct {
	purger BoostPurger
}

func NewBoostPurgeJob(purger BoostPurger) *BoostPurgeJob {
	return &BoostPurgeJob{purger: purger}
}

func (j *BoostPurgeJob) Name() string { return JobNameBoostPurge }

func (j *BoostPurgeJob) Process(ctx context.Context) error {
	_, err := j.purger.PurgeExpired(ctx)
	return err
}
