package domain

import (
	"strings"
	"time"
)

// Mood is one of the fixed labels a journal entry can carry.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodExcited    Mood = "excited"
	MoodEnergetic  Mood = "energetic"
	MoodContent    Mood = "content"
	MoodCalm       Mood = "calm"
	MoodSad        Mood = "sad"
	MoodAnxious    Mood = "anxious"
	MoodAngry      Mood = "angry"
	MoodIrritated  Mood = "irritated"
	MoodFrustrated Mood = "frustrated"
)

// Moods lists every accepted mood in display order.
var Moods = []Mood{
	MoodHappy, MoodExcited, MoodEnergetic, MoodContent, MoodCalm,
	MoodSad, MoodAnxious, MoodAngry, MoodIrritated, MoodFrustrated,
}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

// ParseMood normalizes s and reports whether it names a known mood.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

const (
	MinContentLength = 10
	MaxContentLength = 5000
	MaxCoinsPerEntry = 60
)

// EmotionScore is one fine-grained label produced by the sentiment classifier.
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AIAnalysis is the classifier output stored alongside an entry.
type AIAnalysis struct {
	Emotions []EmotionScore `json:"emotions,omitempty"`
	Summary  string         `json:"summary,omitempty"`
}

type JournalEntry struct {
	ID          int64       `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"userId"`
	Content     string      `db:"content" json:"content"`
	Mood        Mood        `db:"mood" json:"mood"`
	Confidence  *float64    `db:"confidence" json:"confidence,omitempty"`
	AIAnalysis  *AIAnalysis `db:"ai_analysis" json:"aiAnalysis,omitempty"`
	WordCount   int         `db:"word_count" json:"wordCount"`
	CoinsEarned int         `db:"coins_earned" json:"coinsEarned"`
	// EntryDay is the calendar day (midnight UTC) the entry counts for.
	EntryDay  time.Time `db:"entry_day" json:"entryDay"`
	CreatedAt time.Time `db:"created_at" json:"date"`
}
