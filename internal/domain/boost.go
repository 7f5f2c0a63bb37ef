package domain

// BoostCategory names a multiplier slot in a PerkBoostSet
type BoostCategory string

const (
	BoostXP        BoostCategory = "xp"
	BoostCoins     BoostCategory = "coins"
	BoostVoiceXP   BoostCategory = "voice_xp"
	BoostMessageXP BoostCategory = "message_xp"
	BoostImageXP   BoostCategory = "image_xp"
)

// DefaultBoostMultiplier is the neutral value for every category
const DefaultBoostMultiplier = 1.0

// BoostCategories lists every recognised category
var BoostCategories = []BoostCategory{BoostXP, BoostCoins, BoostVoiceXP, BoostMessageXP, BoostImageXP}

// IsValid reports whether c is a known category
func (c BoostCategory) IsValid() bool {
	for _, known := range BoostCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PerkBoostSet maps each category to its effective multiplier
type PerkBoostSet map[BoostCategory]float64

// NewPerkBoostSet returns a set with every category at 1.0
func NewPerkBoostSet() PerkBoostSet {
	set := make(PerkBoostSet, len(BoostCategories))
	for _, c := range BoostCategories {
		set[c] = DefaultBoostMultiplier
	}
	return set
}

// Get returns the multiplier for c, defaulting to 1.0
func (s PerkBoostSet) Get(c BoostCategory) float64 {
	if v, ok := s[c]; ok {
		return v
	}
	return DefaultBoostMultiplier
}

// PermanentPerk is a boost a user owns indefinitely
type PermanentPerk struct {
	UserID string        `json:"user_id"`
	Stat   BoostCategory `json:"stat"`
	Value  float64       `json:"value"`
}

// ActiveBoost is a time-boxed boost; EndTime is epoch seconds
type ActiveBoost struct {
	ID      int64         `json:"id,omitempty"`
	UserID  string        `json:"user_id"`
	Stat    BoostCategory `json:"stat"`
	Value   float64       `json:"value"`
	EndTime int64         `json:"end_time"`
}

// IsActive reports whether the boost still applies at now
func (b ActiveBoost) IsActive(now int64) bool {
	return b.EndTime > now
}

// BoostSummary is the dashboard view of a user's perks and boosts
type BoostSummary struct {
	Permanent []PermanentPerk `json:"permanent"`
	Active    []ActiveBoost   `json:"active"`
	Effective PerkBoostSet    `json:"effective"`
}
