package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindpal/internal/domain"
	"mindpal/internal/gamification"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type UserService struct {
	users        UserStore
	transactions TransactionStore
	loc          *time.Location
	now          func() time.Time
}

func NewUserService(users UserStore, transactions TransactionStore, loc *time.Location) *UserService {
	if loc == nil {
		loc = time.UTC
	}
	return &UserService{users: users, transactions: transactions, loc: loc, now: time.Now}
}

// Profile is the caller's own view of their account.
type Profile struct {
	*domain.User
	CoinsForNextLevel int64 `json:"coinsForNextLevel"`
	// JournaledToday is true once an entry exists for the current calendar day.
	JournaledToday bool `json:"journaledToday"`
}

func (s *UserService) Me(ctx context.Context, userID int64) (*Profile, error) {
	const op = "service.UserService.Me"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	// a streak broken by a missed day shows as 0 until the next entry
	u.CurrentStreak = gamification.ActiveStreak(u.CurrentStreak, u.LastJournalDate, now, s.loc)

	return &Profile{
		User:              u,
		CoinsForNextLevel: gamification.CoinsForNextLevel(u.TotalCoins),
		JournaledToday:    u.LastJournalDate != nil && gamification.DayGap(*u.LastJournalDate, now, s.loc) == 0,
	}, nil
}

type Leaderboard struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
	MyRank  int                       `json:"myRank"`
}

func (s *UserService) Leaderboard(ctx context.Context, userID int64, limit int) (*Leaderboard, error) {
	const op = "service.UserService.Leaderboard"

	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	entries, err := s.users.GetTopByCoins(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rank, err := s.users.GetRank(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Leaderboard{Entries: entries, MyRank: rank}, nil
}

func (s *UserService) Transactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	const op = "service.UserService.Transactions"

	txs, err := s.transactions.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txs, nil
}
