package discord

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommunityEconomy_Go/internal/handler"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

func isImageAttachment(a *discordgo.MessageAttachment) bool {
	if strings.HasPrefix(a.ContentType, "image/") {
		return true
	}
	return imageExtensions[strings.ToLower(path.Ext(a.Filename))]
}

func hasImage(m *discordgo.Message) bool {
	for _, a := range m.Attachments {
		if isImageAttachment(a) {
			return true
		}
	}
	return false
}

// trackMessage awards message XP for guild messages from people and an
// image share for messages carrying an image. Level-ups are announced.
func (b *Bot) trackMessage(ctx context.Context, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	user := m.Author

	res, err := b.Client.AwardMessage(ctx, user.ID, user.Username)
	if err != nil {
		slog.Warn("Failed to award message XP", "error", err, "user_id", user.ID)
	} else if res.LeveledUp && res.Account != nil {
		b.announce(m.ChannelID, formatLevelUp(user.Username, res.Account.Level, res.CoinsGranted))
	}

	if !hasImage(m) {
		return
	}
	img, err := b.Client.AwardImage(ctx, user.ID, user.Username)
	if err != nil {
		slog.Warn("Failed to award image share", "error", err, "user_id", user.ID)
		return
	}
	if img.LeveledUp && img.Account != nil {
		b.announce(m.ChannelID, formatLevelUp(user.Username, img.Account.Level, img.LevelUpCoins))
	}
}

// announce posts to the level-up channel when one is configured and to
// fallbackChannel otherwise
func (b *Bot) announce(fallbackChannel, msg string) {
	channel := b.cfg.LevelUpChannelID
	if channel == "" {
		channel = fallbackChannel
	}
	if channel == "" {
		return
	}
	if _, err := b.Session.ChannelMessageSend(channel, msg); err != nil {
		slog.Warn("Failed to announce", "error", err, "channel_id", channel)
	}
}

// sendVoice posts closed voice segments and announces any level-up
func (b *Bot) sendVoice(ctx context.Context, segments []handler.VoiceRequest) {
	for _, seg := range segments {
		res, err := b.Client.AwardVoice(ctx, seg)
		if err != nil {
			slog.Warn("Failed to award voice minutes", "error", err, "user_id", seg.UserID, "minutes", seg.Minutes)
			continue
		}
		if res.LeveledUp && res.Account != nil {
			b.announce(b.cfg.NotificationChannelID, formatLevelUp(seg.Username, res.Account.Level, res.LevelUpCoins))
		}
	}
}
