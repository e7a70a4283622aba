package analytics

import (
	"strings"

	"mindpal/internal/logger"
)

// MoodBucket is the coarse polarity of a mood label.
type MoodBucket string

const (
	BucketPositive MoodBucket = "positive"
	BucketNegative MoodBucket = "negative"
	BucketNeutral  MoodBucket = "neutral"
)

var (
	positiveMoods = []string{
		"happy", "excited", "energetic", "content", "calm", "joy", "joyful",
		"love", "grateful", "optimistic", "peaceful", "relaxed", "hopeful",
		"proud", "cheerful", "confident", "amused", "admiration", "approval",
		"caring", "gratitude", "optimism", "relief", "pride", "excitement",
	}
	negativeMoods = []string{
		"sad", "anxious", "angry", "irritated", "frustrated", "fear", "scared",
		"stressed", "depressed", "lonely", "disappointed", "worried", "upset",
		"nervous", "guilty", "ashamed", "sadness", "anger", "annoyance",
		"disgust", "grief", "remorse", "embarrassment", "nervousness",
		"disapproval", "disappointment",
	}
	neutralMoods = []string{
		"neutral", "okay", "ok", "fine", "tired", "bored", "meh", "curious",
		"confused", "surprise", "surprised", "realization",
	}

	bucketByMood = func() map[string]MoodBucket {
		m := make(map[string]MoodBucket)
		for _, s := range positiveMoods {
			m[s] = BucketPositive
		}
		for _, s := range negativeMoods {
			m[s] = BucketNegative
		}
		for _, s := range neutralMoods {
			m[s] = BucketNeutral
		}
		return m
	}()
)

// NormalizeMood lower-cases and trims a raw mood label.
func NormalizeMood(mood string) string {
	return strings.ToLower(strings.TrimSpace(mood))
}

// Bucket classifies a mood label. Exact table matches win, then the first
// list containing a keyword found inside the label. Anything else is neutral.
func Bucket(mood string) MoodBucket {
	m := NormalizeMood(mood)
	if b, ok := bucketByMood[m]; ok {
		return b
	}

	// no negation handling: "not happy" matches "happy" and counts as positive
	for _, kw := range positiveMoods {
		if strings.Contains(m, kw) {
			return BucketPositive
		}
	}
	for _, kw := range negativeMoods {
		if strings.Contains(m, kw) {
			return BucketNegative
		}
	}
	for _, kw := range neutralMoods {
		if strings.Contains(m, kw) {
			return BucketNeutral
		}
	}

	logger.Warn("unclassified mood, treating as neutral", "mood", m)
	return BucketNeutral
}
