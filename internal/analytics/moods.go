// Package analytics aggregates journal moods into the summary shown on the
// insights screen. Results are derived on demand and never stored.
package analytics

import (
	"math"
	"sort"

	"mindpal/internal/domain"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

const (
	trendMinEntries = 6
	trendWindow     = 3
	trendThreshold  = 0.1
	topEmotions     = 5
)

// Reward is an insight badge earned from a set of entries.
type Reward struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type MoodAnalytics struct {
	TotalEntries       int                   `json:"totalEntries"`
	MoodFrequency      map[string]int        `json:"moodFrequency"`
	PositivePercentage int                   `json:"positivePercentage"`
	NegativePercentage int                   `json:"negativePercentage"`
	NeutralPercentage  int                   `json:"neutralPercentage"`
	DominantMood       string                `json:"dominantMood"`
	TopEmotions        []domain.EmotionScore `json:"topEmotions"`
	Rewards            []Reward              `json:"rewards"`
	Trend              Trend                 `json:"trend"`
}

type rewardRule struct {
	reward Reward
	match  func(a *MoodAnalytics) bool
}

var rewardRules = []rewardRule{
	{
		reward: Reward{ID: "sunshine_soul", Title: "Sunshine Soul", Description: "At least 70% of your entries were positive."},
		match:  func(a *MoodAnalytics) bool { return a.TotalEntries > 0 && a.PositivePercentage >= 70 },
	},
	{
		reward: Reward{ID: "balanced_mind", Title: "Balanced Mind", Description: "Negative moods stayed at or under 20% across 5+ entries."},
		match:  func(a *MoodAnalytics) bool { return a.TotalEntries >= 5 && a.NegativePercentage <= 20 },
	},
	{
		reward: Reward{ID: "consistent_chronicler", Title: "Consistent Chronicler", Description: "You wrote 10 or more entries."},
		match:  func(a *MoodAnalytics) bool { return a.TotalEntries >= 10 },
	},
	{
		reward: Reward{ID: "emotional_explorer", Title: "Emotional Explorer", Description: "You named 5 or more different moods."},
		match:  func(a *MoodAnalytics) bool { return len(a.MoodFrequency) >= 5 },
	},
}

// AnalyzeMoods summarizes entries. The input slice is left untouched.
func AnalyzeMoods(entries []*domain.JournalEntry) MoodAnalytics {
	res := MoodAnalytics{
		TotalEntries:  len(entries),
		MoodFrequency: make(map[string]int),
		DominantMood:  string(BucketNeutral),
		TopEmotions:   []domain.EmotionScore{},
		Rewards:       []Reward{},
		Trend:         TrendStable,
	}
	if len(entries) == 0 {
		return res
	}

	var (
		counts    = make(map[MoodBucket]int)
		firstSeen []string
		emoSum    = make(map[string]float64)
		emoCount  = make(map[string]int)
	)

	// buckets[i] classifies entries[i]; each label is classified once
	buckets := make([]MoodBucket, len(entries))
	for i, e := range entries {
		mood := NormalizeMood(string(e.Mood))
		if _, seen := res.MoodFrequency[mood]; !seen {
			firstSeen = append(firstSeen, mood)
		}
		res.MoodFrequency[mood]++
		buckets[i] = Bucket(mood)
		counts[buckets[i]]++

		if e.AIAnalysis != nil {
			for _, emo := range e.AIAnalysis.Emotions {
				label := NormalizeMood(emo.Label)
				if label == "" {
					continue
				}
				emoSum[label] += emo.Score
				emoCount[label]++
			}
		}
	}

	total := float64(len(entries))
	res.PositivePercentage = percent(counts[BucketPositive], total)
	res.NegativePercentage = percent(counts[BucketNegative], total)
	res.NeutralPercentage = percent(counts[BucketNeutral], total)

	best := 0
	for _, mood := range firstSeen {
		if n := res.MoodFrequency[mood]; n > best {
			best = n
			res.DominantMood = mood
		}
	}

	res.TopEmotions = averageEmotions(emoSum, emoCount)

	for _, rule := range rewardRules {
		if rule.match(&res) {
			res.Rewards = append(res.Rewards, rule.reward)
		}
	}

	res.Trend = moodTrend(entries, buckets)
	return res
}

func percent(n int, total float64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / total * 100))
}

func averageEmotions(sum map[string]float64, count map[string]int) []domain.EmotionScore {
	out := make([]domain.EmotionScore, 0, len(sum))
	for label, s := range sum {
		out = append(out, domain.EmotionScore{Label: label, Score: s / float64(count[label])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > topEmotions {
		out = out[:topEmotions]
	}
	return out
}

// moodTrend compares the last three entries with the three before them.
func moodTrend(entries []*domain.JournalEntry, buckets []MoodBucket) Trend {
	if len(entries) < trendMinEntries {
		return TrendStable
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return entries[order[i]].CreatedAt.Before(entries[order[j]].CreatedAt)
	})

	sorted := make([]MoodBucket, len(order))
	for i, idx := range order {
		sorted[i] = buckets[idx]
	}

	n := len(sorted)
	recent := windowScore(sorted[n-trendWindow:])
	previous := windowScore(sorted[n-2*trendWindow : n-trendWindow])

	switch diff := recent - previous; {
	case diff > trendThreshold:
		return TrendImproving
	case diff < -trendThreshold:
		return TrendDeclining
	}
	return TrendStable
}

func windowScore(window []MoodBucket) float64 {
	var score float64
	for _, b := range window {
		switch b {
		case BucketPositive:
			score++
		case BucketNeutral:
			score += 0.5
		}
	}
	return score / trendWindow
}
