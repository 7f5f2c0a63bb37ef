package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/osse101/CommunityEconomy_Go/internal/discord"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// Default values for optional configuration
const (
	DefaultWebhookPort        = "8082"
	DefaultAPIURL             = "http://localhost:8080"
	DefaultDashboardURL       = "http://localhost:8080/dashboard"
	DefaultVoiceFlushInterval = 5 * time.Minute
	DefaultReminderInterval   = time.Hour
	DefaultReminderCooldown   = 6 * time.Hour
)

// CommandFactory creates a Discord command and its handler
type CommandFactory func() (*discordgo.ApplicationCommand, discord.CommandHandler)

func main() {
	_ = godotenv.Load()

	setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	bot, err := discord.New(cfg)
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	webhookPort := getEnv("DISCORD_WEBHOOK_PORT", DefaultWebhookPort)
	httpServer := discord.NewHTTPServer(webhookPort, cfg.APIKey, bot)
	httpServer.Start()
	defer httpServer.Stop()

	registerCommands(bot, getCommandFactories(cfg))

	forceUpdate := os.Getenv("DISCORD_FORCE_COMMAND_UPDATE") == "true"
	if forceUpdate {
		slog.Info("Force command update enabled via environment variable")
	}
	if err := bot.RegisterCommands(bot.Registry, forceUpdate); err != nil {
		// already-registered commands keep working
		slog.Error("Failed to register commands", "error", err)
	}

	if err := bot.Run(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger configures structured logging to stdout
func setupLogger() {
	cfg := logger.DefaultConfig()
	cfg.ServiceName = "community-economy-discord"
	cfg.Level = getEnv("LOG_LEVEL", cfg.Level)
	cfg.Format = getEnv("LOG_FORMAT", cfg.Format)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	slog.SetDefault(logger.New(cfg, os.Stdout))
}

// loadConfig loads and validates Discord bot configuration from environment variables
func loadConfig() (discord.Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return discord.Config{}, errors.New("DISCORD_TOKEN is required")
	}

	appID := os.Getenv("DISCORD_APP_ID")
	if appID == "" {
		return discord.Config{}, errors.New("DISCORD_APP_ID is required")
	}

	apiURL := getEnv("API_URL", DefaultAPIURL)
	slog.Info("Configured API URL", "url", apiURL)

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		slog.Warn("API_KEY not set, discord bot requests may fail")
	}

	voiceFlush, err := getDuration("DISCORD_VOICE_FLUSH_INTERVAL", DefaultVoiceFlushInterval)
	if err != nil {
		return discord.Config{}, err
	}
	if voiceFlush < time.Minute {
		return discord.Config{}, errors.New("DISCORD_VOICE_FLUSH_INTERVAL must be at least 1m")
	}
	reminders, err := getDuration("DISCORD_REMINDER_INTERVAL", DefaultReminderInterval)
	if err != nil {
		return discord.Config{}, err
	}
	cooldown, err := getDuration("DISCORD_REMINDER_COOLDOWN", DefaultReminderCooldown)
	if err != nil {
		return discord.Config{}, err
	}

	notificationChannelID := os.Getenv("DISCORD_NOTIFICATION_CHANNEL_ID")
	if notificationChannelID != "" {
		slog.Info("Notifications enabled", "channel_id", notificationChannelID)
	}

	return discord.Config{
		Token:                 token,
		AppID:                 appID,
		APIURL:                apiURL,
		APIKey:                apiKey,
		DashboardURL:          getEnv("DASHBOARD_URL", DefaultDashboardURL),
		NotificationChannelID: notificationChannelID,
		LevelUpChannelID:      os.Getenv("DISCORD_LEVELUP_CHANNEL_ID"),
		VoiceFlushInterval:    voiceFlush,
		ReminderInterval:      reminders,
		ReminderCooldown:      cooldown,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getCommandFactories returns every Discord command the bot serves
func getCommandFactories(cfg discord.Config) []CommandFactory {
	return []CommandFactory{
		discord.PingCommand,

		// Progression
		discord.RankCommand,
		discord.LeaderboardCommand,
		discord.PrestigeCommand,

		// Investments
		discord.InvestCommand,

		// Dashboard
		func() (*discordgo.ApplicationCommand, discord.CommandHandler) {
			return discord.DashboardCommand(cfg.DashboardURL)
		},

		// Admin
		discord.AdminCommand,
	}
}

// registerCommands registers all provided command factories with the bot's registry
func registerCommands(bot *discord.Bot, factories []CommandFactory) {
	for _, factory := range factories {
		cmd, handler := factory()
		bot.Registry.Register(cmd, handler)
	}
}
