package discord

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/worker"
)

// DMFunc sends an embed to a user's DM channel
type DMFunc func(userID string, embed *discordgo.MessageEmbed) error

// AttentionNotifier DMs users about neglected or broken properties.
// A user is reminded again only after cooldown, or sooner when the
// list of affected properties changes.
type AttentionNotifier struct {
	send     DMFunc
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	sent map[string]reminder
}

type reminder struct {
	at  time.Time
	key string
}

var _ worker.AttentionNotifier = (*AttentionNotifier)(nil)

func NewAttentionNotifier(send DMFunc, cooldown time.Duration) *AttentionNotifier {
	return &AttentionNotifier{
		send:     send,
		cooldown: cooldown,
		now:      time.Now,
		sent:     make(map[string]reminder),
	}
}

// NotifyAttention sends one DM per user due a reminder.
// Delivery failures are collected; the rest still go out.
func (n *AttentionNotifier) NotifyAttention(ctx context.Context, items []investment.Attention) error {
	var errs []error
	for _, a := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := attentionKey(a)
		if !n.due(a.UserID, key) {
			continue
		}
		embed := createEmbed("🏚️ Property Reminder", formatAttention(a), ColorWarning, "")
		if err := n.send(a.UserID, embed); err != nil {
			slog.Warn("Failed to send maintenance reminder", "error", err, "user_id", a.UserID)
			errs = append(errs, err)
			continue
		}
		n.mark(a.UserID, key)
	}
	return errors.Join(errs...)
}

func (n *AttentionNotifier) due(userID, key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	last, ok := n.sent[userID]
	return !ok || last.key != key || n.now().Sub(last.at) >= n.cooldown
}

func (n *AttentionNotifier) mark(userID, key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent[userID] = reminder{at: n.now(), key: key}
}

func attentionKey(a investment.Attention) string {
	risk := slices.Clone(a.RiskEvents)
	low := slices.Clone(a.LowMaintenance)
	slices.Sort(risk)
	slices.Sort(low)
	return strings.Join(risk, ",") + "|" + strings.Join(low, ",")
}

// reminderJob polls the API for properties needing attention
type reminderJob struct {
	client   *APIClient
	notifier worker.AttentionNotifier
}

func (j *reminderJob) Name() string { return "maintenance_reminders" }

func (j *reminderJob) Process(ctx context.Context) error {
	items, err := j.client.NeedsAttention(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return j.notifier.NotifyAttention(ctx, items)
}

// voiceFlushJob credits the whole minutes of open voice sessions
type voiceFlushJob struct {
	bot *Bot
}

func (j *voiceFlushJob) Name() string { return "voice_flush" }

func (j *voiceFlushJob) Process(ctx context.Context) error {
	j.bot.sendVoice(ctx, j.bot.Voice.Flush())
	return nil
}
