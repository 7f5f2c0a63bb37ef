package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CommunityEconomy_Go/internal/investment"
)

// InvestCommandName is the top-level investment command
const InvestCommandName = "invest"

// propertySubcommand maps an /invest subcommand to an engine action.
// owned subcommands autocomplete from the caller's portfolio.
type propertySubcommand struct {
	name, action, description string
	owned                     bool
}

var propertySubcommands = []propertySubcommand{
	{"buy", investment.ActionPurchase, "Buy a property", false},
	{"sell", investment.ActionSell, "Sell a property for 70% of its price", true},
	{"maintain", investment.ActionMaintain, "Pay upkeep to restore maintenance", true},
	{"repair", investment.ActionRepair, "Fix a property hit by a risk event", true},
	{"collect", investment.ActionCollect, "Collect a property's income", true},
}

// InvestCommand groups every property action under /invest
func InvestCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        InvestCommandName,
		Description: "Buy and manage income properties",
	}
	for _, sc := range propertySubcommands {
		cmd.Options = append(cmd.Options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        sc.name,
			Description: sc.description,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "property",
					Description:  "Property name",
					Required:     true,
					Autocomplete: true,
				},
			},
		})
	}
	cmd.Options = append(cmd.Options,
		&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "collect-all", Description: "Collect from every property off cooldown"},
		&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "maintain-all", Description: "Maintain every property below 90%"},
		&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "portfolio", Description: "Show your properties"},
		&discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "catalog", Description: "List the properties for sale"},
	)

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		user := getInteractionUser(i)
		name, opts := subcommand(i)

		var action func(ctx context.Context) (string, error)
		title, color := "🏠 Investments", ColorInfo

		switch name {
		case "collect-all":
			title, color = "💰 Collect All", ColorGold
			action = func(ctx context.Context) (string, error) {
				res, err := client.CollectAll(ctx, user.ID)
				if err != nil {
					return "", err
				}
				return formatCollectAll(res), nil
			}
		case "maintain-all":
			title, color = "🔧 Maintain All", ColorSuccess
			action = func(ctx context.Context) (string, error) {
				res, err := client.MaintainAll(ctx, user.ID)
				if err != nil {
					return "", err
				}
				return formatMaintainAll(res), nil
			}
		case "portfolio":
			title = "🏘️ " + user.Username + "'s Portfolio"
			action = func(ctx context.Context) (string, error) {
				p, err := client.Portfolio(ctx, user.ID)
				if err != nil {
					return "", err
				}
				return formatPortfolio(p), nil
			}
		case "catalog":
			title, color = "📜 Property Catalog", ColorTeal
			action = func(ctx context.Context) (string, error) {
				entries, err := client.Catalog(ctx)
				if err != nil {
					return "", err
				}
				return formatCatalog(entries), nil
			}
		default:
			sc, ok := findPropertySubcommand(name)
			opt, hasProp := optionMap(opts)["property"]
			if !ok || !hasProp {
				if deferResponse(s, i, true) {
					respondError(s, i, MsgMissingOption)
				}
				return
			}
			property := opt.StringValue()
			color = ColorSuccess
			action = func(ctx context.Context) (string, error) {
				out, err := client.PropertyAction(ctx, sc.action, user.ID, property)
				if err != nil {
					return "", err
				}
				return formatOutcome(out), nil
			}
		}

		handleEmbedResponse(s, i, action, ResponseConfig{Title: title, Color: color})
	}

	return cmd, handler
}

func findPropertySubcommand(name string) (propertySubcommand, bool) {
	for _, sc := range propertySubcommands {
		if sc.name == name {
			return sc, true
		}
	}
	return propertySubcommand{}, false
}
