package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mindpal/internal/analytics"
	"mindpal/internal/domain"
	"mindpal/internal/gamification"
	"mindpal/internal/logger"
)

const maxListDays = 365

type JournalService struct {
	entries JournalStore
	quests  QuestRecorder
	relay   Broadcaster
	loc     *time.Location
	now     func() time.Time
}

type JournalOption func(*JournalService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) JournalOption {
	return func(s *JournalService) { s.now = now }
}

func WithQuestRecorder(q QuestRecorder) JournalOption {
	return func(s *JournalService) { s.quests = q }
}

func WithBroadcaster(b Broadcaster) JournalOption {
	return func(s *JournalService) { s.relay = b }
}

// NewJournalService builds the service. loc decides which calendar day an
// entry belongs to; nil means UTC.
func NewJournalService(entries JournalStore, loc *time.Location, opts ...JournalOption) *JournalService {
	if loc == nil {
		loc = time.UTC
	}
	s := &JournalService{
		entries: entries,
		quests:  nopRecorder{},
		relay:   nopBroadcaster{},
		loc:     loc,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type SubmitRequest struct {
	Content    string
	Mood       string
	Confidence *float64
	AIAnalysis *domain.AIAnalysis
}

type EntrySummary struct {
	ID          int64       `json:"id"`
	Mood        domain.Mood `json:"mood"`
	WordCount   int         `json:"wordCount"`
	CoinsEarned int         `json:"coinsEarned"`
	Date        time.Time   `json:"date"`
}

type UserStats struct {
	TotalCoins    int64 `json:"totalCoins"`
	CurrentStreak int   `json:"currentStreak"`
	Level         int   `json:"level"`
	PetHappiness  int   `json:"petHappiness"`
	LeveledUp     bool  `json:"leveledUp"`
}

type SubmitResult struct {
	Entry     EntrySummary `json:"entry"`
	UserStats UserStats    `json:"userStats"`
}

// Submit validates and stores a journal entry and applies its rewards to the
// author. At most one entry per calendar day is accepted.
func (s *JournalService) Submit(ctx context.Context, userID int64, req SubmitRequest) (*SubmitResult, error) {
	const op = "service.JournalService.Submit"
	log := logger.FromContext(ctx)

	content := strings.TrimSpace(req.Content)
	chars := utf8.RuneCountInString(content)
	if chars < domain.MinContentLength || chars > domain.MaxContentLength {
		return nil, domain.NewValidationError("content",
			fmt.Sprintf("must be %d to %d characters", domain.MinContentLength, domain.MaxContentLength))
	}
	mood, ok := domain.ParseMood(req.Mood)
	if !ok {
		return nil, domain.NewValidationError("mood", "unknown mood")
	}
	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 1) {
		return nil, domain.NewValidationError("confidence", "must be between 0 and 1")
	}

	words := len(strings.Fields(content))
	coins := gamification.CalculateCoins(words, chars)
	now := s.now()

	entry := &domain.JournalEntry{
		UserID:      userID,
		Content:     content,
		Mood:        mood,
		Confidence:  req.Confidence,
		AIAnalysis:  req.AIAnalysis,
		WordCount:   words,
		CoinsEarned: coins,
		EntryDay:    gamification.CalendarDay(now, s.loc),
	}

	var leveledUp bool
	user, err := s.entries.CreateEntry(ctx, entry, func(u *domain.User) error {
		streak := gamification.NextStreak(
			gamification.Streak{Current: u.CurrentStreak, Max: u.MaxStreak},
			u.LastJournalDate, now, s.loc,
		)
		prevLevel := u.Level

		u.TotalCoins += int64(coins)
		u.Coins += int64(coins)
		u.CurrentStreak = streak.Current
		u.MaxStreak = streak.Max
		u.LastJournalDate = &now
		u.Pet.Happiness = gamification.UpdatePetHappiness(mood, streak.Current, u.Pet.Happiness)
		u.Level = gamification.CalculateLevel(u.TotalCoins)

		leveledUp = u.Level > prevLevel
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyJournaledToday) {
			JournalDuplicates.Inc()
			return nil, domain.ErrAlreadyJournaledToday
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	JournalSubmissions.WithLabelValues(string(mood)).Inc()
	CoinsAwarded.WithLabelValues(domain.TxTypeJournalReward).Add(float64(coins))

	res := &SubmitResult{
		Entry: EntrySummary{
			ID:          entry.ID,
			Mood:        entry.Mood,
			WordCount:   entry.WordCount,
			CoinsEarned: entry.CoinsEarned,
			Date:        entry.CreatedAt,
		},
		UserStats: UserStats{
			TotalCoins:    user.TotalCoins,
			CurrentStreak: user.CurrentStreak,
			Level:         user.Level,
			PetHappiness:  user.Pet.Happiness,
			LeveledUp:     leveledUp,
		},
	}

	log.Info("journal entry stored",
		"user_id", userID, "entry_id", entry.ID, "mood", mood,
		"coins", coins, "streak", user.CurrentStreak, "leveled_up", leveledUp)

	// quests and relay are side effects; the entry is already committed
	if err := s.quests.Record(ctx, userID, questEventsFor(entry, user.CurrentStreak)...); err != nil {
		log.Warn("quest progress not recorded", "user_id", userID, logger.Err(err))
	}
	s.relay.Broadcast(domain.UserRoom(userID), domain.EventJournalSubmitted, res)

	return res, nil
}

func questEventsFor(e *domain.JournalEntry, streak int) []domain.QuestEvent {
	events := []domain.QuestEvent{
		{Action: domain.ActionTypeJournal},
		{Action: domain.ActionTypeStreak, Value: streak},
	}
	if analytics.Bucket(string(e.Mood)) == analytics.BucketPositive {
		events = append(events, domain.QuestEvent{Action: domain.ActionTypePositiveJournal})
	}
	if e.WordCount >= domain.LongJournalWords {
		events = append(events, domain.QuestEvent{Action: domain.ActionTypeLongJournal})
	}
	return events
}

// List returns the user's entries of the last days days, newest first.
func (s *JournalService) List(ctx context.Context, userID int64, days int) ([]*domain.JournalEntry, error) {
	const op = "service.JournalService.List"

	entries, err := s.entries.ListByUser(ctx, userID, s.since(days), 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// Today returns the entry for the current calendar day, or domain.ErrEntryNotFound.
func (s *JournalService) Today(ctx context.Context, userID int64) (*domain.JournalEntry, error) {
	const op = "service.JournalService.Today"

	e, err := s.entries.GetByDay(ctx, userID, gamification.CalendarDay(s.now(), s.loc))
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// since returns the start of the calendar day days-1 days ago in the journal
// location. days <= 0 or above the cap falls back to the cap.
func (s *JournalService) since(days int) time.Time {
	if days <= 0 || days > maxListDays {
		days = maxListDays
	}
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d-(days-1), 0, 0, 0, 0, s.loc)
}
