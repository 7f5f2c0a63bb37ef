package discord

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommunityEconomy_Go/internal/scheduler"
	"github.com/osse101/CommunityEconomy_Go/internal/worker"
)

const (
	backgroundWorkers   = 1
	backgroundQueueSize = 8
	shutdownFlushWait   = 10 * time.Second
)

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	Client   *APIClient
	AppID    string
	Registry *CommandRegistry
	Voice    *VoiceTracker
	Notifier *AttentionNotifier

	cfg   Config
	pool  *worker.Pool
	sched *scheduler.Scheduler
}

// Config holds the bot configuration
type Config struct {
	Token        string
	AppID        string
	APIURL       string
	APIKey       string
	DashboardURL string

	// NotificationChannelID receives announcements and voice level-ups
	NotificationChannelID string
	// LevelUpChannelID, when set, receives every level-up
	LevelUpChannelID string

	VoiceFlushInterval time.Duration
	// ReminderInterval of zero disables maintenance DMs
	ReminderInterval time.Duration
	ReminderCooldown time.Duration
}

// New creates a new Discord bot
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildVoiceStates

	b := &Bot{
		Session:  s,
		Client:   NewAPIClient(cfg.APIURL, cfg.APIKey),
		AppID:    cfg.AppID,
		Registry: NewCommandRegistry(),
		Voice:    NewVoiceTracker(),
		cfg:      cfg,
	}
	b.Notifier = NewAttentionNotifier(func(userID string, embed *discordgo.MessageEmbed) error {
		return sendDM(b.Session, userID, embed)
	}, cfg.ReminderCooldown)
	return b, nil
}

// Start opens the gateway and schedules the voice flush and reminders
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.messageCreate)
	b.Session.AddHandler(b.voiceStateUpdate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	b.pool = worker.NewPool(backgroundWorkers, backgroundQueueSize)
	b.pool.Start()
	b.sched = scheduler.New(b.pool)
	b.sched.Schedule(b.cfg.VoiceFlushInterval, &voiceFlushJob{bot: b})
	if b.cfg.ReminderInterval > 0 {
		b.sched.Schedule(b.cfg.ReminderInterval, &reminderJob{client: b.Client, notifier: b.Notifier})
	}

	slog.Info("Discord bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop credits open voice sessions and closes the gateway
func (b *Bot) Stop() {
	if b.sched != nil {
		b.sched.Stop()
	}
	if b.pool != nil {
		b.pool.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownFlushWait)
	defer cancel()
	b.sendVoice(ctx, b.Voice.Close())

	if err := b.Session.Close(); err != nil {
		slog.Warn("Failed to close Discord session", "error", err)
	}
}

// Run runs the bot until a signal is received
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

// SendNotification posts an embed to the notification channel
func (b *Bot) SendNotification(embed *discordgo.MessageEmbed) error {
	if b.cfg.NotificationChannelID == "" {
		return fmt.Errorf("notification channel not configured")
	}
	_, err := b.Session.ChannelMessageSendEmbed(b.cfg.NotificationChannelID, embed)
	return err
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.Registry.Handle(s, i, b.Client)
	case discordgo.InteractionApplicationCommandAutocomplete:
		HandleAutocomplete(s, i, b.Client)
	}
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	b.trackMessage(ctx, m.Message)
}

func (b *Bot) voiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil {
		return
	}
	st := VoiceState{
		UserID:    v.UserID,
		ChannelID: v.ChannelID,
		Muted:     v.SelfMute || v.Mute,
		Deafened:  v.SelfDeaf || v.Deaf,
		Streaming: v.SelfStream,
	}
	if v.Member != nil && v.Member.User != nil {
		if v.Member.User.Bot {
			return
		}
		st.Username = v.Member.User.Username
	}

	segments := b.Voice.Update(st)
	if len(segments) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	b.sendVoice(ctx, segments)
}
