package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindpal/internal/domain"
	"mindpal/internal/gamification"
	"mindpal/internal/logger"
)

// QuestService tracks progress on daily, weekly and one-time quests.
type QuestService struct {
	quests QuestStore
	loc    *time.Location
	now    func() time.Time
}

func NewQuestService(quests QuestStore, loc *time.Location) *QuestService {
	if loc == nil {
		loc = time.UTC
	}
	return &QuestService{quests: quests, loc: loc, now: time.Now}
}

func (s *QuestService) Active(ctx context.Context) ([]*domain.Quest, error) {
	const op = "service.QuestService.Active"

	qs, err := s.quests.GetActiveQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return qs, nil
}

// ForUser joins every active quest with the user's progress for the current period.
func (s *QuestService) ForUser(ctx context.Context, userID int64) ([]*domain.QuestWithProgress, error) {
	const op = "service.QuestService.ForUser"

	quests, err := s.quests.GetActiveQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	progress, err := s.quests.GetUserQuests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().In(s.loc)
	current := make(map[int64]*domain.UserQuestWithDetails, len(progress))
	for _, p := range progress {
		if p.IsExpired(&p.Quest, now) {
			continue
		}
		current[p.QuestID] = p
	}

	res := make([]*domain.QuestWithProgress, 0, len(quests))
	for _, q := range quests {
		qp := &domain.QuestWithProgress{Quest: q, TargetCount: q.TargetCount}
		if p, ok := current[q.ID]; ok {
			id := p.ID
			qp.UserQuestID = &id
			qp.CurrentCount = p.CurrentCount
			qp.Completed = p.Completed
			qp.RewardClaimed = p.RewardClaimed
			qp.Progress = p.Progress(q.TargetCount)
		}
		res = append(res, qp)
	}
	return res, nil
}

// Record applies events to every active quest counting the same action.
// One failing quest does not stop the others; the first error is returned.
func (s *QuestService) Record(ctx context.Context, userID int64, events ...domain.QuestEvent) error {
	const op = "service.QuestService.Record"

	if len(events) == 0 {
		return nil
	}
	quests, err := s.quests.GetActiveQuests(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().In(s.loc)
	var firstErr error
	for _, q := range quests {
		for _, ev := range events {
			if ev.Action != q.ActionType {
				continue
			}
			if err := s.apply(ctx, userID, q, ev, now); err != nil {
				logger.FromContext(ctx).Warn("quest progress failed",
					"user_id", userID, "quest_id", q.ID, logger.Err(err))
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%s: %w", op, firstErr)
	}
	return nil
}

func (s *QuestService) apply(ctx context.Context, userID int64, q *domain.Quest, ev domain.QuestEvent, now time.Time) error {
	uq, err := s.quests.GetOrCreateUserQuest(ctx, userID, q.ID, domain.PeriodStart(q.QuestType, now))
	if err != nil {
		return err
	}
	if uq.Completed {
		return nil
	}
	uq, changed, err := s.quests.AdvanceProgress(ctx, uq.ID, q, ev, now)
	if err != nil {
		return err
	}
	if changed && uq.Completed {
		logger.FromContext(ctx).Info("quest completed", "user_id", userID, "quest_id", q.ID)
	}
	return nil
}

// Claim credits the reward of a completed quest once.
func (s *QuestService) Claim(ctx context.Context, userID, userQuestID int64) (*domain.User, int64, error) {
	const op = "service.QuestService.Claim"

	u, reward, err := s.quests.ClaimReward(ctx, userID, userQuestID, func(u *domain.User, reward int64) {
		u.TotalCoins += reward
		u.Coins += reward
		u.Level = gamification.CalculateLevel(u.TotalCoins)
	})
	if err != nil {
		if errors.Is(err, domain.ErrQuestNotClaimable) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	CoinsAwarded.WithLabelValues(domain.TxTypeQuestReward).Add(float64(reward))
	logger.FromContext(ctx).Info("quest reward claimed",
		"user_id", userID, "user_quest_id", userQuestID, "reward", reward)
	return u, reward, nil
}
