package gamification

import "mindpal/internal/domain"

const (
	minStat = 0
	maxStat = 100
)

var moodHappinessDelta = map[domain.Mood]int{
	domain.MoodHappy:      8,
	domain.MoodExcited:    10,
	domain.MoodEnergetic:  6,
	domain.MoodContent:    5,
	domain.MoodCalm:       3,
	domain.MoodSad:        -3,
	domain.MoodAnxious:    -5,
	domain.MoodAngry:      -8,
	domain.MoodIrritated:  -6,
	domain.MoodFrustrated: -4,
}

// MoodDelta is the happiness change a mood causes. Unknown moods give 0.
func MoodDelta(mood domain.Mood) int {
	return moodHappinessDelta[mood]
}

// StreakBonus rewards keeping a streak alive.
func StreakBonus(streak int) int {
	switch {
	case streak >= 7:
		return 5
	case streak >= 3:
		return 2
	}
	return 0
}

// UpdatePetHappiness returns the pet happiness after an entry with mood.
func UpdatePetHappiness(mood domain.Mood, currentStreak, currentHappiness int) int {
	return Clamp(currentHappiness+MoodDelta(mood)+StreakBonus(currentStreak), minStat, maxStat)
}

// ApplyItem adds the item boosts to the pet stats and records ownership.
func ApplyItem(pet domain.Pet, item domain.ShopItem) domain.Pet {
	items := make([]string, 0, len(pet.Items)+1)
	items = append(items, pet.Items...)
	if !pet.HasItem(item.ID) {
		items = append(items, item.ID)
	}
	return domain.Pet{
		Happiness: Clamp(pet.Happiness+item.HappinessBoost, minStat, maxStat),
		Health:    Clamp(pet.Health+item.HealthBoost, minStat, maxStat),
		Items:     items,
	}
}
