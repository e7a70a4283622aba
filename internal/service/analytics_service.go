package service

import (
	"context"
	"fmt"
	"time"

	"mindpal/internal/analytics"
	"mindpal/internal/logger"
)

const defaultAnalyticsDays = 30

type AnalyticsService struct {
	entries JournalStore
	loc     *time.Location
	now     func() time.Time
}

func NewAnalyticsService(entries JournalStore, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{entries: entries, loc: loc, now: time.Now}
}

// Moods summarizes the user's entries of the last days days.
func (s *AnalyticsService) Moods(ctx context.Context, userID int64, days int) (analytics.MoodAnalytics, error) {
	const op = "service.AnalyticsService.Moods"

	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxListDays {
		days = maxListDays
	}
	y, m, d := s.now().In(s.loc).Date()
	since := time.Date(y, m, d-(days-1), 0, 0, 0, 0, s.loc)

	entries, err := s.entries.ListByUser(ctx, userID, since, 0)
	if err != nil {
		return analytics.MoodAnalytics{}, fmt.Errorf("%s: %w", op, err)
	}

	res := analytics.AnalyzeMoods(entries)
	logger.FromContext(ctx).Debug("mood analytics computed",
		"user_id", userID, "days", days, "entries", res.TotalEntries, "trend", res.Trend)
	return res, nil
}
