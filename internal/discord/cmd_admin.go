package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/handler"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
	"github.com/osse101/CommunityEconomy_Go/internal/utils"
)

var adminPermission = int64(discordgo.PermissionAdministrator)

func userOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func boostStatChoices() []*discordgo.ApplicationCommandOptionChoice {
	stats := []domain.BoostCategory{
		domain.BoostXP, domain.BoostCoins, domain.BoostVoiceXP, domain.BoostMessageXP, domain.BoostImageXP,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(stats))
	for _, st := range stats {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(st), Value: string(st)})
	}
	return choices
}

// AdminCommand returns the /admin command tree (administrators only)
func AdminCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     "admin",
		Description:              "[ADMIN] Manage the community economy",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "coins",
				Description: "Add or remove coins",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("user", "Target user"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "action",
						Description: "Add or remove",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "add", Value: handler.CoinActionAdd},
							{Name: "remove", Value: handler.CoinActionRemove},
						},
					},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "amount", Description: "Coins", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "levels",
				Description: "Add (positive) or remove (negative) levels",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("user", "Target user"),
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "delta", Description: "Levels to add or remove", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "xp-toggle",
				Description: "Turn XP and coin gain on or off",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "enabled", Description: "Enable XP", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "boost",
				Description: "Grant a boost. Leave minutes empty for a permanent perk.",
				Options: []*discordgo.ApplicationCommandOption{
					userOption("user", "Target user"),
					{Type: discordgo.ApplicationCommandOptionString, Name: "stat", Description: "Boosted stat", Required: true, Choices: boostStatChoices()},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "value", Description: "Multiplier (1-10)", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "minutes", Description: "Duration in minutes"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "event",
				Description: "Set the server-wide event multipliers",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "xp", Description: "XP multiplier"},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "coins", Description: "Coin multiplier"},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "settings", Description: "Show the live economy settings"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "tick", Description: "Run the property update now"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "reset-income", Description: "Zero every property's waiting income"},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		name, opts := subcommand(i)
		o := optionMap(opts)

		action := adminAction(s, client, name, o)
		if action == nil {
			if deferResponse(s, i, true) {
				respondError(s, i, MsgMissingOption)
			}
			return
		}
		handleEmbedResponse(s, i, action, ResponseConfig{
			Title:     "🛠️ Admin: " + name,
			Color:     ColorAdmin,
			Footer:    FooterEconomyAdmin,
			Ephemeral: true,
		})
	}

	return cmd, handler
}

// adminAction builds the API call for one /admin subcommand. It returns
// nil when a required option is missing.
func adminAction(s *discordgo.Session, client *APIClient, name string, o map[string]*discordgo.ApplicationCommandInteractionDataOption) func(ctx context.Context) (string, error) {
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := o[k]; !ok {
				return false
			}
		}
		return true
	}

	switch name {
	case "coins":
		if !has("user", "action", "amount") {
			return nil
		}
		target := o["user"].UserValue(s)
		req := handler.AdminCoinsRequest{
			UserID:   target.ID,
			Username: target.Username,
			Amount:   o["amount"].FloatValue(),
			Action:   o["action"].StringValue(),
		}
		return func(ctx context.Context) (string, error) {
			acc, err := client.AdminCoins(ctx, req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s: %s 🪙 %s\nBalance: 🪙 %s",
				target.Username, req.Action, utils.FormatCoins(req.Amount), utils.FormatCoins(acc.Coins)), nil
		}

	case "levels":
		if !has("user", "delta") {
			return nil
		}
		target := o["user"].UserValue(s)
		req := handler.AdminLevelsRequest{UserID: target.ID, Username: target.Username, Delta: int(o["delta"].IntValue())}
		return func(ctx context.Context) (string, error) {
			acc, err := client.AdminLevels(ctx, req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s is now level **%d**.", target.Username, acc.Level), nil
		}

	case "xp-toggle":
		if !has("enabled") {
			return nil
		}
		enabled := o["enabled"].BoolValue()
		return func(ctx context.Context) (string, error) {
			st, err := client.SetXPEnabled(ctx, enabled)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("XP gain enabled: **%t**", st.XPEnabled), nil
		}

	case "boost":
		if !has("user", "stat", "value") {
			return nil
		}
		target := o["user"].UserValue(s)
		stat := o["stat"].StringValue()
		value := o["value"].FloatValue()
		if m, ok := o["minutes"]; ok {
			req := handler.TemporaryBoostRequest{
				UserID:          target.ID,
				Stat:            stat,
				Value:           value,
				DurationSeconds: m.IntValue() * int64(time.Minute/time.Second),
			}
			return func(ctx context.Context) (string, error) {
				b, err := client.GrantTemporaryBoost(ctx, req)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%s gets x%.2f %s until <t:%d:R>.", target.Username, b.Value, b.Stat, b.EndTime), nil
			}
		}
		req := handler.PermanentBoostRequest{UserID: target.ID, Stat: stat, Value: value}
		return func(ctx context.Context) (string, error) {
			p, err := client.GrantPermanentBoost(ctx, req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s now has a permanent x%.2f %s perk.", target.Username, p.Value, p.Stat), nil
		}

	case "event":
		var patch settings.Patch
		if x, ok := o["xp"]; ok {
			v := x.FloatValue()
			patch.EventXPMultiplier = &v
		}
		if c, ok := o["coins"]; ok {
			v := c.FloatValue()
			patch.EventCoinMultiplier = &v
		}
		if patch.IsEmpty() {
			return nil
		}
		return func(ctx context.Context) (string, error) {
			st, err := client.PatchSettings(ctx, patch)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Event multipliers: XP x%.2f · coins x%.2f", st.EventXPMultiplier, st.EventCoinMultiplier), nil
		}

	case "settings":
		return func(ctx context.Context) (string, error) {
			st, err := client.GetSettings(ctx)
			if err != nil {
				return "", err
			}
			return formatSettings(st), nil
		}

	case "tick":
		return func(ctx context.Context) (string, error) {
			sum, err := client.RunTick(ctx)
			if err != nil {
				return "", err
			}
			if sum.Skipped {
				return "Another replica is running the update.", nil
			}
			return fmt.Sprintf("Processed %d properties · +🪙 %s · %d risk events · %d failures",
				sum.PropertiesProcessed, utils.FormatCoins(sum.IncomeAdded), sum.RiskEvents, sum.Failures), nil
		}

	case "reset-income":
		return func(ctx context.Context) (string, error) {
			sum, err := client.ResetIncome(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Cleared waiting income on %d properties for %d users.", sum.Properties, sum.Users), nil
		}
	}
	return nil
}

func formatSettings(st *domain.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "XP enabled: **%t**\n", st.XPEnabled)
	fmt.Fprintf(&b, "Message XP: %d-%d (base %d), cooldown %ds\n", st.MinXPPerMessage, st.MaxXPPerMessage, st.XPPerMessage, st.XPCooldownSeconds)
	fmt.Fprintf(&b, "Level curve base: %d XP · 🪙 %d per level\n", st.BaseXPRequired, st.CoinsPerLevel)
	fmt.Fprintf(&b, "Voice: %d/%d XP · 🪙 %s/%s per minute\n", st.VoiceActiveXP, st.VoiceInactiveXP,
		utils.FormatCoins(st.VoiceActiveCoins), utils.FormatCoins(st.VoiceInactiveCoins))
	fmt.Fprintf(&b, "Streaming: %d XP · 🪙 %s per minute · Image: %d XP\n", st.StreamingXP, utils.FormatCoins(st.StreamingCoins), st.ImageXP)
	fmt.Fprintf(&b, "Prestige: every %d levels, max %d, 🪙 %d, x%.2f for %ds\n",
		st.LevelsPerPrestige, st.MaxPrestige, st.PrestigeCoins, st.PrestigeBoostMultiplier, st.PrestigeBoostDuration)
	fmt.Fprintf(&b, "Event multipliers: XP x%.2f · coins x%.2f", st.EventXPMultiplier, st.EventCoinMultiplier)
	return b.String()
}
