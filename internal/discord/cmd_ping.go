package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// PingCommand reports gateway latency and whether the economy API answers
func PingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check if the bot and the economy API are alive",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			start := time.Now()
			api := "🔴 unreachable"
			if client.Healthy(ctx) {
				api = fmt.Sprintf("🟢 ok (%dms)", time.Since(start).Milliseconds())
			}
			return fmt.Sprintf("Pong! 🏓\nGateway: %dms\nEconomy API: %s",
				s.HeartbeatLatency().Milliseconds(), api), nil
		}, ResponseConfig{Title: "🏓 Ping", Color: ColorInfo, Ephemeral: true})
	}

	return cmd, handler
}
