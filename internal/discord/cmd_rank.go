package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 25
)

// RankCommand shows a user's level, XP and coins
func RankCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "rank",
		Description: "Show level, XP and coins",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "User to look up (default: yourself)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		user := getInteractionUser(i)
		if opt, ok := optionMap(getOptions(i))["user"]; ok {
			user = opt.UserValue(s)
		}

		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			snap, err := client.GetAccount(ctx, user.ID)
			if IsNotFound(err) {
				return MsgNoAccount, nil
			}
			if err != nil {
				return "", err
			}
			return formatRank(user.Username, snap), nil
		}, ResponseConfig{Title: "📈 Rank", Color: ColorInfo})
	}

	return cmd, handler
}

// LeaderboardCommand shows the top accounts by XP
func LeaderboardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minSize := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Description: "View the top members",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "limit",
				Description: fmt.Sprintf("How many to show (default: %d)", defaultLeaderboardSize),
				Required:    false,
				MinValue:    &minSize,
				MaxValue:    maxLeaderboardSize,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		limit := defaultLeaderboardSize
		if opt, ok := optionMap(getOptions(i))["limit"]; ok {
			limit = int(opt.IntValue())
		}

		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			entries, err := client.Leaderboard(ctx, limit)
			if err != nil {
				return "", err
			}
			return formatLeaderboard(entries), nil
		}, ResponseConfig{Title: "🏆 Leaderboard", Color: ColorTeal})
	}

	return cmd, handler
}

// PrestigeCommand trades the caller's level for a prestige tier
func PrestigeCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "prestige",
		Description: "Reset your level for a prestige tier, coins and a temporary boost",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		user := getInteractionUser(i)
		handleEmbedResponse(s, i, func(ctx context.Context) (string, error) {
			res, err := client.Prestige(ctx, user.ID, user.Username)
			if err != nil {
				return "", err
			}
			return formatPrestige(res), nil
		}, ResponseConfig{Title: "✨ Prestige", Color: ColorGold})
	}

	return cmd, handler
}
