package domain

// Account is the per-user progression and economy record.
// Timestamps are epoch seconds.
type Account struct {
	UserID           string  `json:"user_id"`
	Username         string  `json:"username"`
	XP               int     `json:"xp"`
	Level            int     `json:"level"`
	Prestige         int     `json:"prestige"`
	Coins            float64 `json:"coins"`
	MessageCount     int     `json:"message_count"`
	VoiceMinutes     int     `json:"voice_minutes"`
	StreamingMinutes int     `json:"streaming_minutes"`
	ImagesShared     int     `json:"images_shared"`
	LastXPTime       int64   `json:"last_xp_time"`
	BoostEndTime     int64   `json:"boost_end_time"`
	BoostMultiplier  float64 `json:"boost_multiplier"`
}

// NewAccount returns a fresh account at level 1 with no balance
func NewAccount(userID, username string) *Account {
	return &Account{
		UserID:          userID,
		Username:        username,
		Level:           1,
		BoostMultiplier: 1.0,
	}
}

// HasActivePrestigeBoost reports whether the prestige boost window is open at now
func (a *Account) HasActivePrestigeBoost(now int64) bool {
	return a.BoostEndTime > now
}

// ClearExpiredBoost resets a lapsed prestige boost to its neutral values.
// Returns true if the account was modified.
func (a *Account) ClearExpiredBoost(now int64) bool {
	if a.HasActivePrestigeBoost(now) {
		return false
	}
	if a.BoostEndTime > 0 && a.BoostMultiplier > 1.0 {
		a.BoostEndTime = 0
		a.BoostMultiplier = 1.0
		return true
	}
	return false
}

// Clone returns a copy safe to mutate
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// LeaderboardEntry is one row of the progression ranking
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	XP       int     `json:"xp"`
	Level    int     `json:"level"`
	Coins    float64 `json:"coins"`
	Prestige int     `json:"prestige"`
}
