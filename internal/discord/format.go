package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/utils"
)

var rankMedals = []string{"🥇", "🥈", "🥉"}

func formatRank(name string, snap *progression.AccountSnapshot) string {
	acc := snap.Account
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", name)
	fmt.Fprintf(&b, "Level **%d** · Prestige **%d**\n", acc.Level, acc.Prestige)
	fmt.Fprintf(&b, "XP: %s / %s\n", utils.FormatInt(acc.XP), utils.FormatInt(snap.XPRequired))
	fmt.Fprintf(&b, "Coins: 🪙 %s\n", utils.FormatCoins(acc.Coins))
	fmt.Fprintf(&b, "Messages: %s · Voice: %s min · Images: %s",
		utils.FormatInt(acc.MessageCount), utils.FormatInt(acc.VoiceMinutes), utils.FormatInt(acc.ImagesShared))
	if snap.PrestigeBoostActive {
		fmt.Fprintf(&b, "\n⚡ Prestige boost x%.2f for %s", acc.BoostMultiplier, time.Duration(snap.BoostSecondsLeft)*time.Second)
	}
	if snap.CanPrestige {
		b.WriteString("\n✨ You can `/prestige` now!")
	}
	return b.String()
}

func formatLeaderboard(entries []domain.LeaderboardEntry) string {
	if len(entries) == 0 {
		return MsgLeaderboardEmpty
	}
	var b strings.Builder
	for _, e := range entries {
		marker := fmt.Sprintf("`#%d`", e.Rank)
		if e.Rank >= 1 && e.Rank <= len(rankMedals) {
			marker = rankMedals[e.Rank-1]
		}
		name := e.Username
		if name == "" {
			name = e.UserID
		}
		fmt.Fprintf(&b, "%s **%s** · Lv %d", marker, name, e.Level)
		if e.Prestige > 0 {
			fmt.Fprintf(&b, " · P%d", e.Prestige)
		}
		fmt.Fprintf(&b, " · 🪙 %s\n", utils.FormatCoins(e.Coins))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPrestige(res *progression.PrestigeResult) string {
	return fmt.Sprintf("You reached prestige **%d**!\n🪙 +%s coins\n⚡ x%.2f boost until <t:%d:R>",
		res.NewPrestige, utils.FormatCoins(res.CoinsGranted), res.BoostMultiplier, res.BoostEndTime)
}

func formatOutcome(out *investment.Outcome) string {
	var line string
	switch out.Action {
	case investment.ActionPurchase:
		line = fmt.Sprintf("Bought **%s** for 🪙 %s.", out.Property, utils.FormatInt(out.Amount))
	case investment.ActionSell:
		line = fmt.Sprintf("Sold **%s** for 🪙 %s.", out.Property, utils.FormatInt(out.Amount))
	case investment.ActionMaintain:
		line = fmt.Sprintf("Maintained **%s** (+%.0f%%) for 🪙 %s.", out.Property, out.MaintenanceGain, utils.FormatInt(out.Amount))
	case investment.ActionRepair:
		line = fmt.Sprintf("Repaired **%s** for 🪙 %s.", out.Property, utils.FormatInt(out.Amount))
	case investment.ActionCollect:
		line = fmt.Sprintf("Collected 🪙 %s from **%s**.", utils.FormatInt(out.Amount), out.Property)
	default:
		line = fmt.Sprintf("%s **%s**.", out.Action, out.Property)
	}
	return fmt.Sprintf("%s\nBalance: 🪙 %s", line, utils.FormatCoins(out.Balance))
}

func formatCollectAll(res *investment.CollectAllResult) string {
	return fmt.Sprintf("Collected 🪙 %s from %s.\nHourly rate: 🪙 %s/h\nBalance: 🪙 %s",
		utils.FormatInt(res.Total), strings.Join(res.Properties, ", "),
		utils.FormatInt(res.HourlyRate), utils.FormatCoins(res.Balance))
}

func formatMaintainAll(res *investment.MaintainAllResult) string {
	return fmt.Sprintf("Maintained %s for 🪙 %s.\nBalance: 🪙 %s",
		strings.Join(res.Maintained, ", "), utils.FormatInt(res.TotalCost), utils.FormatCoins(res.Balance))
}

func formatPortfolio(p *investment.Portfolio) string {
	if len(p.Items) == 0 {
		return MsgNoProperties
	}
	var b strings.Builder
	for _, it := range p.Items {
		fmt.Fprintf(&b, "%s **%s**\n", it.Emoji, it.Name)
		if it.RiskEvent {
			fmt.Fprintf(&b, "⚠️ %s · repair 🪙 %s\n", it.RiskEventType, utils.FormatInt(it.RepairCost))
		}
		fmt.Fprintf(&b, "Maintenance %.0f%% · 🪙 %s / %s · %s\n",
			it.Maintenance, utils.FormatCoins(it.AccumulatedIncome), utils.FormatInt(it.MaxAccumulation), it.Status)
		fmt.Fprintf(&b, "%s\n\n", it.CollectStatus)
	}
	fmt.Fprintf(&b, "Hourly rate: 🪙 %s/h · Waiting: 🪙 %s",
		utils.FormatInt(p.HourlyRate), utils.FormatCoins(p.TotalAccumulated))
	return b.String()
}

func formatCatalog(entries []domain.PropertyCatalogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s **%s** · 🪙 %s\n", e.Emoji, e.Name, utils.FormatInt(e.Price))
		fmt.Fprintf(&b, "🪙 %s/h, holds %s · upkeep 🪙 %s\n",
			utils.FormatInt(e.HourlyIncome), utils.FormatInt(e.MaxAccumulation), utils.FormatInt(e.MaintenanceCost))
		if e.Description != "" {
			fmt.Fprintf(&b, "_%s_\n", e.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAttention(a investment.Attention) string {
	var b strings.Builder
	b.WriteString(MsgAttentionHeader)
	for _, p := range a.RiskEvents {
		fmt.Fprintf(&b, "\n⚠️ **%s** has a problem and earns nothing until repaired.", p)
	}
	for _, p := range a.LowMaintenance {
		fmt.Fprintf(&b, "\n🔧 **%s** is below 30%% maintenance.", p)
	}
	b.WriteString("\nUse `/invest maintain-all` or `/invest repair`.")
	return b.String()
}

func formatLevelUp(username string, level int, coins float64) string {
	msg := fmt.Sprintf("🎉 **%s** reached level **%d**!", username, level)
	if coins > 0 {
		msg += fmt.Sprintf(" 🪙 +%s", utils.FormatCoins(coins))
	}
	return msg
}
