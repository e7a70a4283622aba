// Package gamification holds the pure scoring rules: coins, streaks,
// pet happiness and levels. Nothing here does I/O.
package gamification

import "mindpal/internal/domain"

const (
	baseCoins = 10

	coinsPerLevel = 100
)

// CalculateCoins returns the reward for an entry of the given size.
// Word tiers are exclusive, the two character bonuses stack.
func CalculateCoins(wordCount, charCount int) int {
	coins := baseCoins

	switch {
	case wordCount >= 100:
		coins += 20
	case wordCount >= 50:
		coins += 10
	case wordCount >= 25:
		coins += 5
	}

	if charCount >= 500 {
		coins += 10
	}
	if charCount >= 1000 {
		coins += 20
	}

	if coins > domain.MaxCoinsPerEntry {
		coins = domain.MaxCoinsPerEntry
	}
	return coins
}

// CalculateLevel maps lifetime coins to a level starting at 1.
func CalculateLevel(totalCoins int64) int {
	if totalCoins < 0 {
		totalCoins = 0
	}
	return int(totalCoins/coinsPerLevel) + 1
}

// CoinsForNextLevel is how many more coins reach the next level.
func CoinsForNextLevel(totalCoins int64) int64 {
	if totalCoins < 0 {
		totalCoins = 0
	}
	return int64(CalculateLevel(totalCoins))*coinsPerLevel - totalCoins
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
