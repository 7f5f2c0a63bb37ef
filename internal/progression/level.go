package progression

import (
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/utils"
)

// ResolveLevelUps spends xp on consecutive levels. Advancing past level L
// costs base×L, and leftover xp carries into the next level.
func ResolveLevelUps(xp, level, base int) (newXP, newLevel, gained int) {
	newXP, newLevel = xp, level
	if base <= 0 {
		return newXP, newLevel, 0
	}
	for newXP >= base*newLevel {
		newXP -= base * newLevel
		newLevel++
	}
	return newXP, newLevel, newLevel - level
}

// LevelUpCoins is the reward for gaining levels, rounded half to even
func LevelUpCoins(coinsPerLevel, levels int, mult float64) float64 {
	if levels <= 0 {
		return 0
	}
	return float64(utils.RoundHalfEven(float64(coinsPerLevel*levels) * mult))
}

// applyLevelUps resolves pending levels on acc and credits their coins
func applyLevelUps(acc *domain.Account, st domain.Settings, coinMult float64) (int, float64) {
	xp, level, gained := ResolveLevelUps(acc.XP, acc.Level, st.BaseXPRequired)
	acc.XP, acc.Level = xp, level
	if gained == 0 {
		return 0, 0
	}
	coins := LevelUpCoins(st.CoinsPerLevel, gained, coinMult)
	acc.Coins = utils.RoundTo(acc.Coins+coins, 2)
	return gained, coins
}
