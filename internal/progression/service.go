package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/boost"
	"github.com/osse101/CommunityEconomy_Go/internal/concurrency"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/metrics"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
	"github.com/osse101/CommunityEconomy_Go/internal/utils"
)

// Service defines the XP, level, coin and prestige business logic
type Service interface {
	// Awards
	AwardMessageXP(ctx context.Context, req MessageXPRequest) (*MessageXPResult, error)
	AwardVoiceActivity(ctx context.Context, req VoiceActivityRequest) (*ActivityResult, error)
	AwardImageShare(ctx context.Context, userID, username string) (*ActivityResult, error)

	// Balance and prestige
	AdjustCoins(ctx context.Context, adj CoinAdjustment) (*domain.Account, error)
	Prestige(ctx context.Context, userID, username string) (*PrestigeResult, error)

	// Reads
	GetAccount(ctx context.Context, userID string) (*AccountSnapshot, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)

	// Admin
	AdminAdjustLevels(ctx context.Context, adj LevelAdjustment) (*domain.Account, error)
}

type service struct {
	repo     repository.Account
	settings settings.Store
	boosts   boost.Resolver
	locks    *concurrency.LockManager
	bus      event.Bus

	now    func() time.Time
	rndInt func(min, max int) int
}

// NewService creates a new progression service.
// locks must be shared with every other engine that mutates accounts.
func NewService(repo repository.Account, store settings.Store, boosts boost.Resolver, locks *concurrency.LockManager, bus event.Bus) Service {
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{
		repo:     repo,
		settings: store,
		boosts:   boosts,
		locks:    locks,
		bus:      bus,
		now:      time.Now,
		rndInt:   utils.RandomInt,
	}
}

func (s *service) AwardMessageXP(ctx context.Context, req MessageXPRequest) (*MessageXPResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if req.Amount != nil && *req.Amount < 0 {
		return nil, fmt.Errorf("%w: xp amount cannot be negative", domain.ErrInvalidInput)
	}
	st, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return s.awardMessageXP(ctx, st, req)
}

func (s *service) awardMessageXP(ctx context.Context, st domain.Settings, req MessageXPRequest) (*MessageXPResult, error) {
	log := logger.FromContext(ctx)

	if !st.XPEnabled {
		log.Debug(LogMsgXPDisabled, "user_id", req.UserID, "source", domain.SourceMessage)
		acc, err := s.currentAccount(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		return &MessageXPResult{Status: StatusDisabled, Account: acc}, nil
	}

	amount := s.messageAmount(st, req.Amount)
	boosts := boost.ResolveOrDefault(ctx, s.boosts, req.UserID)
	now := s.now().Unix()

	result := &MessageXPResult{Status: StatusAwarded}
	acc, err := s.mutateAccount(ctx, req.UserID, req.Username, func(acc *domain.Account) (bool, error) {
		cleared := acc.ClearExpiredBoost(now)

		cooldown := int64(st.XPCooldownSeconds)
		if elapsed := now - acc.LastXPTime; elapsed < cooldown {
			result.Status = StatusOnCooldown
			result.CooldownRemaining = cooldown - elapsed
			return cleared, nil
		}

		xpMult := requestOrEvent(req.XPMultiplier, st.EventXPMultiplier) * boosts.Get(domain.BoostMessageXP) * boosts.Get(domain.BoostXP)
		if acc.HasActivePrestigeBoost(now) {
			xpMult *= acc.BoostMultiplier
		}
		coinMult := requestOrEvent(req.CoinMultiplier, st.EventCoinMultiplier) * boosts.Get(domain.BoostCoins)

		result.PreviousLevel = acc.Level
		result.XPGranted = utils.RoundHalfEven(float64(amount) * xpMult)
		acc.XP += result.XPGranted
		acc.MessageCount++
		acc.LastXPTime = now
		result.LevelsGained, result.CoinsGranted = applyLevelUps(acc, st, coinMult)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status == StatusOnCooldown {
		log.Debug(LogMsgOnCooldown, "user_id", req.UserID, "remaining", result.CooldownRemaining)
		return result, nil
	}

	result.Account = acc
	result.LeveledUp = result.LevelsGained > 0
	log.Debug(LogMsgMessageAwarded, "user_id", req.UserID, "xp", result.XPGranted, "level", acc.Level)
	s.recordAward(ctx, domain.SourceMessage, acc, result.PreviousLevel, result.XPGranted, result.CoinsGranted, result.CoinsGranted)
	return result, nil
}

func (s *service) AwardVoiceActivity(ctx context.Context, req VoiceActivityRequest) (*ActivityResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if req.Minutes <= 0 {
		return nil, fmt.Errorf("%w: minutes must be positive", domain.ErrInvalidInput)
	}
	st, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return s.awardVoice(ctx, st, req)
}

func (s *service) awardVoice(ctx context.Context, st domain.Settings, req VoiceActivityRequest) (*ActivityResult, error) {
	log := logger.FromContext(ctx)

	if !st.XPEnabled {
		log.Debug(LogMsgXPDisabled, "user_id", req.UserID, "source", domain.SourceVoice)
		return s.disabledActivity(ctx, req.UserID)
	}

	boosts := boost.ResolveOrDefault(ctx, s.boosts, req.UserID)
	xpRate, coinRate := voiceRates(st, req.IsStreaming, req.IsActive)
	minutes := float64(req.Minutes)
	now := s.now().Unix()

	result := &ActivityResult{Status: StatusAwarded}
	acc, err := s.mutateAccount(ctx, req.UserID, req.Username, func(acc *domain.Account) (bool, error) {
		acc.ClearExpiredBoost(now)

		xpMult := boosts.Get(domain.BoostVoiceXP) * boosts.Get(domain.BoostXP)
		if acc.HasActivePrestigeBoost(now) {
			// the prestige boost replaces category boosts on this path
			xpMult = acc.BoostMultiplier
		}

		result.PreviousLevel = acc.Level
		result.XPGranted = utils.RoundHalfEven(float64(xpRate) * minutes * xpMult)
		result.CoinsGranted = utils.RoundTo(coinRate*boosts.Get(domain.BoostCoins)*minutes, 2)

		acc.XP += result.XPGranted
		acc.VoiceMinutes += req.Minutes
		if req.IsStreaming {
			acc.StreamingMinutes += req.Minutes
		}
		acc.Coins = utils.RoundTo(acc.Coins+result.CoinsGranted, 2)
		result.LevelsGained, result.LevelUpCoins = applyLevelUps(acc, st, noMultiplier)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	result.Account = acc
	result.LeveledUp = result.LevelsGained > 0
	log.Debug(LogMsgVoiceAwarded, "user_id", req.UserID, "minutes", req.Minutes, "xp", result.XPGranted, "coins", result.CoinsGranted)
	metrics.VoiceSessionsFlushed.Inc()
	s.recordAward(ctx, domain.SourceVoice, acc, result.PreviousLevel, result.XPGranted, result.CoinsGranted+result.LevelUpCoins, result.LevelUpCoins)
	return result, nil
}

func (s *service) AwardImageShare(ctx context.Context, userID, username string) (*ActivityResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	st, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return s.awardImage(ctx, st, userID, username)
}

func (s *service) awardImage(ctx context.Context, st domain.Settings, userID, username string) (*ActivityResult, error) {
	log := logger.FromContext(ctx)

	if !st.XPEnabled {
		log.Debug(LogMsgXPDisabled, "user_id", userID, "source", domain.SourceImage)
		return s.disabledActivity(ctx, userID)
	}

	boosts := boost.ResolveOrDefault(ctx, s.boosts, userID)
	now := s.now().Unix()

	result := &ActivityResult{Status: StatusAwarded}
	acc, err := s.mutateAccount(ctx, userID, username, func(acc *domain.Account) (bool, error) {
		acc.ClearExpiredBoost(now)

		xpMult := boosts.Get(domain.BoostImageXP) * boosts.Get(domain.BoostXP)
		if acc.HasActivePrestigeBoost(now) {
			xpMult *= acc.BoostMultiplier
		}

		result.PreviousLevel = acc.Level
		result.XPGranted = utils.RoundHalfEven(float64(st.ImageXP) * xpMult)
		acc.XP += result.XPGranted
		acc.ImagesShared++
		result.LevelsGained, result.LevelUpCoins = applyLevelUps(acc, st, noMultiplier)
		result.CoinsGranted = result.LevelUpCoins
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	result.Account = acc
	result.LeveledUp = result.LevelsGained > 0
	log.Debug(LogMsgImageAwarded, "user_id", userID, "xp", result.XPGranted)
	s.recordAward(ctx, domain.SourceImage, acc, result.PreviousLevel, result.XPGranted, result.CoinsGranted, result.LevelUpCoins)
	return result, nil
}

func (s *service) AdjustCoins(ctx context.Context, adj CoinAdjustment) (*domain.Account, error) {
	log := logger.FromContext(ctx)

	if adj.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if !adj.Source.IsValid() {
		return nil, fmt.Errorf("%w: unknown coin source %q", domain.ErrInvalidInput, adj.Source)
	}
	amount := utils.RoundTo(adj.Delta, 2)
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be non-zero", domain.ErrInvalidInput)
	}

	if adj.Source == SourceNormalAccrual {
		st, err := s.loadSettings(ctx)
		if err != nil {
			return nil, err
		}
		if !st.XPEnabled {
			log.Debug(LogMsgAccrualDisabled, "user_id", adj.UserID, "amount", amount)
			acc, err := s.currentAccount(ctx, adj.UserID)
			if err != nil {
				return nil, err
			}
			if acc == nil {
				acc = domain.NewAccount(adj.UserID, adj.Username)
			}
			return acc, nil
		}
	}

	acc, err := s.mutateAccount(ctx, adj.UserID, adj.Username, func(acc *domain.Account) (bool, error) {
		if amount < 0 && acc.Coins < -amount {
			return false, fmt.Errorf("%w: balance is %s coins, %s required",
				domain.ErrInsufficientFunds, utils.FormatCoins(acc.Coins), utils.FormatCoins(-amount))
		}
		acc.Coins = utils.RoundTo(acc.Coins+amount, 2)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if amount > 0 {
		metrics.CoinsAwarded.WithLabelValues(string(adj.Source)).Add(amount)
	}
	log.Info(LogMsgCoinsAdjusted, "user_id", adj.UserID, "amount", amount, "source", adj.Source, "balance", acc.Coins)
	return acc, nil
}

func (s *service) Prestige(ctx context.Context, userID, username string) (*PrestigeResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	st, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	acc, err := s.mutateAccount(ctx, userID, username, func(acc *domain.Account) (bool, error) {
		if acc.Level < st.LevelsPerPrestige {
			return false, fmt.Errorf("%w: level %d of %d", domain.ErrPrestigeLevelTooLow, acc.Level, st.LevelsPerPrestige)
		}
		if acc.Prestige >= st.MaxPrestige {
			return false, fmt.Errorf("%w: prestige %d of %d", domain.ErrMaxPrestigeReached, acc.Prestige, st.MaxPrestige)
		}
		acc.Level = 1
		acc.XP = 0
		acc.Prestige++
		acc.Coins = utils.RoundTo(acc.Coins+float64(st.PrestigeCoins), 2)
		acc.BoostMultiplier = st.PrestigeBoostMultiplier
		acc.BoostEndTime = now + st.PrestigeBoostDuration
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	result := &PrestigeResult{
		Account:         acc,
		NewPrestige:     acc.Prestige,
		CoinsGranted:    float64(st.PrestigeCoins),
		BoostMultiplier: acc.BoostMultiplier,
		BoostEndTime:    acc.BoostEndTime,
	}

	logger.FromContext(ctx).Info(LogMsgPrestiged, "user_id", userID, "prestige", acc.Prestige, "boost_end_time", acc.BoostEndTime)
	metrics.CoinsAwarded.WithLabelValues(domain.SourcePrestige).Add(result.CoinsGranted)
	s.publish(ctx, event.NewPrestigeEvent(domain.PrestigePayload{
		UserID:          userID,
		Username:        acc.Username,
		NewPrestige:     acc.Prestige,
		CoinsReward:     result.CoinsGranted,
		BoostMultiplier: acc.BoostMultiplier,
		BoostEndTime:    acc.BoostEndTime,
	}))
	return result, nil
}

func (s *service) GetAccount(ctx context.Context, userID string) (*AccountSnapshot, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	st, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		logger.FromContext(ctx).Error(ErrMsgLoadAccount, "user_id", userID, "error", err)
		return nil, operationFailed(ErrMsgLoadAccount, err)
	}

	// the view hides a lapsed boost without writing it back
	now := s.now().Unix()
	acc.ClearExpiredBoost(now)

	snap := &AccountSnapshot{
		Account:             acc,
		XPRequired:          st.XPRequired(acc.Level),
		CanPrestige:         acc.Level >= st.LevelsPerPrestige && acc.Prestige < st.MaxPrestige,
		PrestigeBoostActive: acc.HasActivePrestigeBoost(now),
	}
	if snap.PrestigeBoostActive {
		snap.BoostSecondsLeft = acc.BoostEndTime - now
	}
	return snap, nil
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}
	entries, err := s.repo.GetLeaderboard(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).Error(ErrMsgLeaderboard, "error", err)
		return nil, operationFailed(ErrMsgLeaderboard, err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *service) AdminAdjustLevels(ctx context.Context, adj LevelAdjustment) (*domain.Account, error) {
	if adj.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if adj.Delta == 0 {
		return nil, fmt.Errorf("%w: level delta must be non-zero", domain.ErrInvalidInput)
	}

	var previous int
	acc, err := s.mutateAccount(ctx, adj.UserID, adj.Username, func(acc *domain.Account) (bool, error) {
		previous = acc.Level
		acc.Level = max(1, acc.Level+adj.Delta)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgLevelsAdjusted, "user_id", adj.UserID, "from", previous, "to", acc.Level)
	if acc.Level > previous {
		s.publish(ctx, event.NewLevelUpEvent(domain.LevelUpPayload{
			UserID:   acc.UserID,
			Username: acc.Username,
			OldLevel: previous,
			NewLevel: acc.Level,
			Source:   domain.SourceAdmin,
		}))
	}
	return acc, nil
}

// mutateAccount loads the account under the user's lock and a row lock,
// applies fn and persists the result when fn asks for it. A returned error
// rolls the transaction back.
func (s *service) mutateAccount(ctx context.Context, userID, username string, fn func(acc *domain.Account) (bool, error)) (*domain.Account, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(userID)
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.Error(ErrMsgBeginTx, "error", err)
		return nil, operationFailed(ErrMsgBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	acc, err := tx.GetOrCreateAccount(ctx, userID, username)
	if err != nil {
		log.Error(ErrMsgLoadAccount, "user_id", userID, "error", err)
		return nil, operationFailed(ErrMsgLoadAccount, err)
	}

	save, err := fn(acc)
	if err != nil {
		return nil, err
	}
	if !save {
		return acc, nil
	}

	if err := tx.UpdateAccount(ctx, acc); err != nil {
		log.Error(ErrMsgSaveAccount, "user_id", userID, "error", err)
		return nil, operationFailed(ErrMsgSaveAccount, err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Error(ErrMsgCommitTx, "user_id", userID, "error", err)
		return nil, operationFailed(ErrMsgCommitTx, err)
	}
	return acc, nil
}

// currentAccount returns the stored account or nil if the user is unknown
func (s *service) currentAccount(ctx context.Context, userID string) (*domain.Account, error) {
	acc, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		logger.FromContext(ctx).Error(ErrMsgLoadAccount, "user_id", userID, "error", err)
		return nil, operationFailed(ErrMsgLoadAccount, err)
	}
	return acc, nil
}

func (s *service) disabledActivity(ctx context.Context, userID string) (*ActivityResult, error) {
	acc, err := s.currentAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ActivityResult{Status: StatusDisabled, Account: acc}, nil
}

func (s *service) loadSettings(ctx context.Context) (domain.Settings, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		logger.FromContext(ctx).Error(ErrMsgLoadSettings, "error", err)
		return domain.Settings{}, operationFailed(ErrMsgLoadSettings, err)
	}
	return st, nil
}

func (s *service) messageAmount(st domain.Settings, explicit *int) int {
	switch {
	case explicit != nil:
		return *explicit
	case st.HasRandomMessageXP():
		return s.rndInt(st.MinXPPerMessage, st.MaxXPPerMessage)
	default:
		return st.XPPerMessage
	}
}

// recordAward updates reward metrics and announces any level change
func (s *service) recordAward(ctx context.Context, source string, acc *domain.Account, previousLevel, xp int, coins, levelCoins float64) {
	metrics.XPAwarded.WithLabelValues(source).Add(float64(xp))
	if coins > 0 {
		metrics.CoinsAwarded.WithLabelValues(source).Add(coins)
	}
	if acc.Level <= previousLevel {
		return
	}

	logger.FromContext(ctx).Info(LogMsgLevelUp, "user_id", acc.UserID, "from", previousLevel, "to", acc.Level, "source", source)
	s.publish(ctx, event.NewLevelUpEvent(domain.LevelUpPayload{
		UserID:      acc.UserID,
		Username:    acc.Username,
		OldLevel:    previousLevel,
		NewLevel:    acc.Level,
		CoinsReward: levelCoins,
		Source:      source,
	}))
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func voiceRates(st domain.Settings, streaming, active bool) (int, float64) {
	switch {
	case streaming:
		return st.StreamingXP, st.StreamingCoins
	case active:
		return st.VoiceActiveXP, st.VoiceActiveCoins
	default:
		return st.VoiceInactiveXP, st.VoiceInactiveCoins
	}
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1.0
	}
	return v
}

// requestOrEvent picks the caller's multiplier when set and the running
// event's multiplier otherwise
func requestOrEvent(requested, event float64) float64 {
	if requested > 0 {
		return requested
	}
	return orOne(event)
}

func operationFailed(msg string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrOperationFailed, msg, err)
}
