package discord

// Friendly message constants for Discord responses
const (
	MsgGenericError     = "❌ Something went wrong."
	MsgAPIUnavailable   = "❌ The economy server is not reachable right now."
	MsgMissingOption    = "❌ Missing required option."
	MsgNoAccount        = "👤 **No account yet**\nSay something in chat to start earning XP."
	MsgNoProperties     = "🏚️ You don't own any properties. Try `/invest catalog`."
	MsgLeaderboardEmpty = "Nobody has earned XP yet."
	MsgDashboardLinkDM  = "📬 Check your DMs for your dashboard link."
	MsgDMFailed         = "❌ I couldn't DM you. Open your privacy settings and allow DMs from server members."
	MsgAttentionHeader  = "🔧 **Your properties need attention**"
)

// Embed colors
const (
	ColorInfo    = 0x3498db
	ColorSuccess = 0x2ecc71
	ColorWarning = 0xf39c12
	ColorDanger  = 0xe74c3c
	ColorGold    = 0xf1c40f
	ColorAdmin   = 0x95a5a6
	ColorTeal    = 0x1abc9c
)

// Footer constants for embed footers
const (
	FooterEconomy      = "Community Economy"
	FooterEconomyAdmin = "Community Economy Admin"
)
