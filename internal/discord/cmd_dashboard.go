package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bwmarrin/discordgo"
)

// DashboardCommand DMs the caller a signed link to the web dashboard
func DashboardCommand(dashboardURL string) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "dashboard",
		Description: "Get a private link to your economy dashboard",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i, true) {
			return
		}
		user := getInteractionUser(i)

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		tok, err := client.IssueDashboardToken(ctx, user.ID, user.Username)
		if err != nil {
			slog.Error("Failed to issue dashboard token", "error", err, "user_id", user.ID)
			respondFriendlyError(s, i, err)
			return
		}

		link := dashboardLink(dashboardURL, tok.Token)
		embed := createEmbed("📊 Your Dashboard",
			fmt.Sprintf("[Open dashboard](%s)\nThis link expires <t:%d:R>. Don't share it.", link, tok.ExpiresAt),
			ColorInfo, "")

		if err := sendDM(s, user.ID, embed); err != nil {
			slog.Warn("Failed to DM dashboard link", "error", err, "user_id", user.ID)
			respondError(s, i, MsgDMFailed)
			return
		}
		respondError(s, i, MsgDashboardLinkDM)
	}

	return cmd, handler
}

// dashboardLink appends the token as the query parameter the dashboard's
// event stream also accepts
func dashboardLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?access_token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func sendDM(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}
