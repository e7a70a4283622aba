package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindpal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questColumns = `id, quest_type, title, description, action_type, target_count, reward_coins, is_active, sort_order, created_at`

const userQuestColumns = `id, user_id, quest_id, current_count, completed, reward_claimed,
	started_at, completed_at, reward_claimed_at, period_start`

type QuestRepository struct {
	db *pgxpool.Pool
}

func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

// GetActiveQuests returns every active quest in display order.
func (r *QuestRepository) GetActiveQuests(ctx context.Context) ([]*domain.Quest, error) {
	const op = "repository.QuestRepository.GetActiveQuests"

	rows, err := r.db.Query(ctx,
		`SELECT `+questColumns+`
		 FROM quests
		 WHERE is_active = true
		 ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := []*domain.Quest{}
	for rows.Next() {
		var q domain.Quest
		if err := scanQuest(rows, &q); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		res = append(res, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetUserQuests returns all progress rows of the user for active quests,
// across every period. Callers drop the expired ones.
func (r *QuestRepository) GetUserQuests(ctx context.Context, userID int64) ([]*domain.UserQuestWithDetails, error) {
	const op = "repository.QuestRepository.GetUserQuests"

	rows, err := r.db.Query(ctx,
		`SELECT
			uq.id, uq.user_id, uq.quest_id, uq.current_count, uq.completed,
			uq.reward_claimed, uq.started_at, uq.completed_at, uq.reward_claimed_at, uq.period_start,
			q.id, q.quest_type, q.title, q.description, q.action_type,
			q.target_count, q.reward_coins, q.is_active, q.sort_order, q.created_at
		 FROM user_quests uq
		 JOIN quests q ON uq.quest_id = q.id
		 WHERE uq.user_id = $1 AND q.is_active = true
		 ORDER BY q.sort_order, q.id, uq.period_start DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := []*domain.UserQuestWithDetails{}
	for rows.Next() {
		var (
			uqd       domain.UserQuestWithDetails
			questType string
			action    string
		)
		err := rows.Scan(
			&uqd.ID, &uqd.UserID, &uqd.QuestID, &uqd.CurrentCount, &uqd.Completed,
			&uqd.RewardClaimed, &uqd.StartedAt, &uqd.CompletedAt, &uqd.RewardClaimedAt, &uqd.PeriodStart,
			&uqd.Quest.ID, &questType, &uqd.Quest.Title, &uqd.Quest.Description, &action,
			&uqd.Quest.TargetCount, &uqd.Quest.RewardCoins, &uqd.Quest.IsActive, &uqd.Quest.SortOrder, &uqd.Quest.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		uqd.Quest.QuestType = domain.QuestType(questType)
		uqd.Quest.ActionType = domain.ActionType(action)
		res = append(res, &uqd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetOrCreateUserQuest returns the progress row for the period, creating it
// when missing. Concurrent callers end up with the same row.
func (r *QuestRepository) GetOrCreateUserQuest(ctx context.Context, userID, questID int64, periodStart time.Time) (*domain.UserQuest, error) {
	const op = "repository.QuestRepository.GetOrCreateUserQuest"

	// the no-op update makes RETURNING yield the existing row on conflict
	uq, err := scanUserQuest(r.db.QueryRow(ctx,
		`INSERT INTO user_quests (user_id, quest_id, period_start)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, quest_id, period_start)
		 DO UPDATE SET period_start = EXCLUDED.period_start
		 RETURNING `+userQuestColumns,
		userID, questID, periodStart,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrQuestNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return uq, nil
}

// AdvanceProgress moves the counter of an open progress row by the event in
// a single statement, so concurrent events for the same row all count.
// It reports false when the row is already completed or nothing changed.
func (r *QuestRepository) AdvanceProgress(ctx context.Context, userQuestID int64, quest *domain.Quest, ev domain.QuestEvent, now time.Time) (*domain.UserQuest, bool, error) {
	const op = "repository.QuestRepository.AdvanceProgress"

	value, absolute := ev.Step(quest)

	// every SET expression sees the row as it was before the update
	uq, err := scanUserQuest(r.db.QueryRow(ctx,
		`UPDATE user_quests
		 SET current_count = CASE WHEN $2::boolean THEN $3::integer ELSE current_count + $3 END,
		     completed = (CASE WHEN $2 THEN $3 ELSE current_count + $3 END) >= $4,
		     completed_at = CASE
		         WHEN (CASE WHEN $2 THEN $3 ELSE current_count + $3 END) >= $4 THEN $5::timestamptz
		     END
		 WHERE id = $1
		   AND completed = false
		   AND (NOT $2 OR $3 > current_count)
		 RETURNING `+userQuestColumns,
		userQuestID, absolute, value, quest.TargetCount, now,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return uq, true, nil
}

// ClaimReward marks a completed quest of the user as claimed and hands the
// locked user to credit together with the reward. Both happen in one
// transaction with a quest_reward ledger row.
func (r *QuestRepository) ClaimReward(ctx context.Context, userID, userQuestID int64, credit func(u *domain.User, reward int64)) (*domain.User, int64, error) {
	const op = "repository.QuestRepository.ClaimReward"

	var (
		updated *domain.User
		reward  int64
	)
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		var questID int64
		err = tx.QueryRow(ctx,
			`UPDATE user_quests uq
			 SET reward_claimed = true, reward_claimed_at = $1
			 FROM quests q
			 WHERE uq.id = $2
			   AND uq.user_id = $3
			   AND uq.quest_id = q.id
			   AND uq.completed = true
			   AND uq.reward_claimed = false
			 RETURNING q.id, q.reward_coins`,
			time.Now(), userQuestID, userID,
		).Scan(&questID, &reward)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrQuestNotClaimable
			}
			return err
		}

		credit(u, reward)
		if err := saveUserStats(ctx, tx, u); err != nil {
			return err
		}
		if reward > 0 {
			if err := insertTransaction(ctx, tx, &domain.Transaction{
				UserID: u.ID,
				Type:   domain.TxTypeQuestReward,
				Amount: reward,
				Meta:   map[string]interface{}{"quest_id": questID, "user_quest_id": userQuestID},
			}); err != nil {
				return err
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return updated, reward, nil
}

// DeleteStale removes unclaimed progress of recurring quests whose period
// started before the cutoff.
func (r *QuestRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	const op = "repository.QuestRepository.DeleteStale"

	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_quests
		 WHERE quest_id IN (SELECT id FROM quests WHERE quest_type IN ('daily', 'weekly'))
		   AND period_start < $1
		   AND reward_claimed = false`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func scanQuest(row pgx.Row, q *domain.Quest) error {
	var questType, action string
	if err := row.Scan(&q.ID, &questType, &q.Title, &q.Description, &action,
		&q.TargetCount, &q.RewardCoins, &q.IsActive, &q.SortOrder, &q.CreatedAt); err != nil {
		return err
	}
	q.QuestType = domain.QuestType(questType)
	q.ActionType = domain.ActionType(action)
	return nil
}

func scanUserQuest(row pgx.Row) (*domain.UserQuest, error) {
	var uq domain.UserQuest
	err := row.Scan(&uq.ID, &uq.UserID, &uq.QuestID, &uq.CurrentCount, &uq.Completed,
		&uq.RewardClaimed, &uq.StartedAt, &uq.CompletedAt, &uq.RewardClaimedAt, &uq.PeriodStart)
	if err != nil {
		return nil, err
	}
	return &uq, nil
}
