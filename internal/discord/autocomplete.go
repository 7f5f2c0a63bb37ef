package discord

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const maxAutocompleteChoices = 25

// HandleAutocomplete routes autocomplete interactions to the appropriate handler
func HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	data := i.ApplicationCommandData()

	switch data.Name {
	case InvestCommandName:
		handlePropertyAutocomplete(s, i, client)
	default:
		slog.Warn("Unhandled autocomplete command", "command", data.Name)
	}
}

// handlePropertyAutocomplete suggests catalog names for buy and owned
// property names for every other subcommand
func handlePropertyAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	name, opts := subcommand(i)
	sc, ok := findPropertySubcommand(name)
	if !ok {
		respondAutocomplete(s, i, nil)
		return
	}
	focused := getFocusedOptionValue(opts)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var names []string
	if sc.owned {
		user := getInteractionUser(i)
		p, err := client.Portfolio(ctx, user.ID)
		if err != nil {
			slog.Error("Failed to get portfolio for autocomplete", "error", err, "user", user.Username)
		} else {
			for _, it := range p.Items {
				names = append(names, it.Name)
			}
		}
	} else {
		entries, err := client.Catalog(ctx)
		if err != nil {
			slog.Error("Failed to get catalog for autocomplete", "error", err)
		}
		for _, e := range entries {
			names = append(names, e.Name)
		}
	}

	respondAutocomplete(s, i, propertyChoices(names, focused))
}

func propertyChoices(names []string, focused string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		if focused != "" && !strings.Contains(strings.ToLower(n), focused) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: n, Value: n})
		if len(choices) >= maxAutocompleteChoices {
			break
		}
	}
	return choices
}

func getFocusedOptionValue(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, opt := range options {
		if opt.Focused {
			return strings.ToLower(opt.StringValue())
		}
	}
	return ""
}

func respondAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}); err != nil {
		slog.Error("Failed to send autocomplete", "error", err)
	}
}
