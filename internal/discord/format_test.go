package discord

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
)

func TestFormatLeaderboard(t *testing.T) {
	assert.Equal(t, MsgLeaderboardEmpty, formatLeaderboard(nil))

	out := formatLeaderboard([]domain.LeaderboardEntry{
		{Rank: 1, Username: "Alice", Level: 9, Prestige: 2},
		{Rank: 2, Username: "Bob", Level: 7},
		{Rank: 3, Username: "Cara", Level: 5},
		{Rank: 4, UserID: "404", Level: 1},
	})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "🥇 **Alice** · Lv 9 · P2"))
	assert.True(t, strings.HasPrefix(lines[2], "🥉 **Cara**"))
	assert.True(t, strings.HasPrefix(lines[3], "`#4` **404**"), "falls back to the user ID")
}

func TestFormatAttention(t *testing.T) {
	out := formatAttention(investment.Attention{UserID: "u1", RiskEvents: []string{"Shop"}, LowMaintenance: []string{"Farm"}})
	assert.True(t, strings.HasPrefix(out, MsgAttentionHeader))
	assert.Contains(t, out, "**Shop** has a problem")
	assert.Contains(t, out, "**Farm** is below 30% maintenance")
}

func TestFormatLevelUp(t *testing.T) {
	assert.Equal(t, "🎉 **Alice** reached level **3**!", formatLevelUp("Alice", 3, 0))
	assert.Contains(t, formatLevelUp("Alice", 3, 25), "+25")
}

func TestDashboardLink(t *testing.T) {
	assert.Equal(t, "https://dash.example.com/?access_token=abc", dashboardLink("https://dash.example.com/", "abc"))
	assert.Equal(t, "https://dash.example.com/me?access_token=a%2Bb&theme=dark", dashboardLink("https://dash.example.com/me?theme=dark", "a+b"))
}
