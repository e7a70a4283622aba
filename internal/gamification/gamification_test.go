package gamification

import (
	"testing"
	"time"

	"mindpal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCoins(t *testing.T) {
	tests := []struct {
		name  string
		words int
		chars int
		want  int
	}{
		{"empty entry", 0, 0, 10},
		{"short entry", 24, 120, 10},
		{"25 words", 25, 0, 15},
		{"50 words", 50, 0, 20},
		{"100 words", 100, 0, 30},
		{"500 chars", 0, 500, 20},
		{"1000 chars stacks both bonuses", 0, 1000, 40},
		{"max everything is clamped", 100, 1000, 60},
		{"huge entry", 900, 5000, 60},
		{"negative input", -5, -5, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateCoins(tc.words, tc.chars))
		})
	}
}

func TestCalculateCoins_Bounds(t *testing.T) {
	for words := 0; words <= 300; words += 7 {
		for chars := 0; chars <= 3000; chars += 37 {
			got := CalculateCoins(words, chars)
			require.GreaterOrEqual(t, got, 10, "words=%d chars=%d", words, chars)
			require.LessOrEqual(t, got, 60, "words=%d chars=%d", words, chars)
		}
	}
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(0))
	assert.Equal(t, 1, CalculateLevel(99))
	assert.Equal(t, 2, CalculateLevel(100))
	assert.Equal(t, 3, CalculateLevel(250))
	assert.Equal(t, 1, CalculateLevel(-20))
}

func TestCoinsForNextLevel(t *testing.T) {
	assert.Equal(t, int64(100), CoinsForNextLevel(0))
	assert.Equal(t, int64(1), CoinsForNextLevel(99))
	assert.Equal(t, int64(100), CoinsForNextLevel(100))
	assert.Equal(t, int64(50), CoinsForNextLevel(250))
}

func TestUpdatePetHappiness(t *testing.T) {
	assert.Equal(t, 100, UpdatePetHappiness(domain.MoodExcited, 10, 95))
	assert.Equal(t, 0, UpdatePetHappiness(domain.MoodAngry, 0, 5))
	assert.Equal(t, 58, UpdatePetHappiness(domain.MoodHappy, 0, 50))
	assert.Equal(t, 49, UpdatePetHappiness(domain.MoodSad, 3, 50))
	assert.Equal(t, 55, UpdatePetHappiness(domain.MoodCalm, 7, 47))
	assert.Equal(t, 50, UpdatePetHappiness(domain.Mood("confused"), 0, 50))
}

func TestUpdatePetHappiness_Bounds(t *testing.T) {
	for _, mood := range domain.Moods {
		for streak := 0; streak <= 10; streak++ {
			for h := 0; h <= 100; h += 5 {
				got := UpdatePetHappiness(mood, streak, h)
				require.GreaterOrEqual(t, got, 0)
				require.LessOrEqual(t, got, 100)
			}
		}
	}
}

func TestStreakBonus(t *testing.T) {
	assert.Equal(t, 0, StreakBonus(0))
	assert.Equal(t, 0, StreakBonus(2))
	assert.Equal(t, 2, StreakBonus(3))
	assert.Equal(t, 2, StreakBonus(6))
	assert.Equal(t, 5, StreakBonus(7))
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	now := day(2024, 3, 10, 9)

	tests := []struct {
		name string
		prev Streak
		last *time.Time
		want Streak
	}{
		{"first entry", Streak{}, nil, Streak{1, 1}},
		{"first entry keeps old max", Streak{0, 4}, nil, Streak{1, 4}},
		{"consecutive day extends", Streak{3, 3}, ptr(day(2024, 3, 9, 23)), Streak{4, 4}},
		{"consecutive day under old max", Streak{2, 9}, ptr(day(2024, 3, 9, 1)), Streak{3, 9}},
		{"same day is unchanged", Streak{5, 8}, ptr(day(2024, 3, 10, 1)), Streak{5, 8}},
		{"gap resets", Streak{6, 6}, ptr(day(2024, 3, 7, 12)), Streak{1, 6}},
		{"future last date resets", Streak{2, 2}, ptr(day(2024, 3, 12, 12)), Streak{1, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextStreak(tc.prev, tc.last, now, time.UTC))
		})
	}
}

func TestNextStreak_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 20:00 UTC on the 9th is already the 10th at UTC+5
	last := day(2024, 3, 9, 20)
	now := day(2024, 3, 10, 8)

	assert.Equal(t, Streak{1, 1}, NextStreak(Streak{1, 1}, &last, now, loc))
	assert.Equal(t, Streak{2, 2}, NextStreak(Streak{1, 1}, &last, now, time.UTC))
}

func TestDayGap(t *testing.T) {
	assert.Equal(t, 0, DayGap(day(2024, 1, 1, 0), day(2024, 1, 1, 23), time.UTC))
	assert.Equal(t, 1, DayGap(day(2024, 1, 31, 23), day(2024, 2, 1, 0), time.UTC))
	assert.Equal(t, 366, DayGap(day(2024, 1, 1, 0), day(2025, 1, 1, 0), time.UTC))
	assert.Equal(t, -2, DayGap(day(2024, 1, 3, 0), day(2024, 1, 1, 0), nil))
}

func TestActiveStreak(t *testing.T) {
	now := day(2024, 3, 10, 9)
	assert.Equal(t, 0, ActiveStreak(4, nil, now, time.UTC))
	assert.Equal(t, 4, ActiveStreak(4, ptr(day(2024, 3, 9, 9)), now, time.UTC))
	assert.Equal(t, 0, ActiveStreak(4, ptr(day(2024, 3, 8, 9)), now, time.UTC))
}

func TestApplyItem(t *testing.T) {
	pet := domain.Pet{Happiness: 95, Health: 50, Items: []string{"ball"}}
	item, ok := domain.FindShopItem("bed")
	require.True(t, ok)

	got := ApplyItem(pet, item)

	assert.Equal(t, 99, got.Happiness)
	assert.Equal(t, 60, got.Health)
	assert.Equal(t, []string{"ball", "bed"}, got.Items)
	assert.Equal(t, []string{"ball"}, pet.Items, "input must not be modified")
}

func ptr[T any](v T) *T { return &v }
