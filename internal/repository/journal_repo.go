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

const journalUserDayKey = "journal_entries_user_day_key"

const entryColumns = `id, user_id, content, mood, confidence, ai_analysis, word_count, coins_earned, entry_day, created_at`

type JournalRepository struct {
	db *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// CreateEntry stores the entry and applies its effect on the author in one
// transaction. The author row is locked first, so concurrent submissions for
// the same user serialize; the second one hits the (user_id, entry_day)
// constraint and gets domain.ErrAlreadyJournaledToday.
//
// apply receives the locked user and mutates it in place.
func (r *JournalRepository) CreateEntry(ctx context.Context, e *domain.JournalEntry, apply func(u *domain.User) error) (*domain.User, error) {
	const op = "repository.JournalRepository.CreateEntry"

	var updated *domain.User
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := lockUser(ctx, tx, e.UserID)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO journal_entries
			   (user_id, content, mood, confidence, ai_analysis, word_count, coins_earned, entry_day)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at`,
			e.UserID, e.Content, string(e.Mood), e.Confidence, e.AIAnalysis, e.WordCount, e.CoinsEarned, e.EntryDay,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			if isUniqueViolation(err, journalUserDayKey) {
				return domain.ErrAlreadyJournaledToday
			}
			return fmt.Errorf("insert entry: %w", err)
		}

		if err := apply(u); err != nil {
			return err
		}
		if err := saveUserStats(ctx, tx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		if e.CoinsEarned > 0 {
			ledger := &domain.Transaction{
				UserID: u.ID,
				Type:   domain.TxTypeJournalReward,
				Amount: int64(e.CoinsEarned),
				Meta:   map[string]interface{}{"entry_id": e.ID, "mood": string(e.Mood)},
			}
			if err := insertTransaction(ctx, tx, ledger); err != nil {
				return fmt.Errorf("insert ledger: %w", err)
			}
		}

		updated = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// ListByUser returns the user's entries created at or after since, newest first.
// A zero since means no lower bound.
func (r *JournalRepository) ListByUser(ctx context.Context, userID int64, since time.Time, limit int) ([]*domain.JournalEntry, error) {
	const op = "repository.JournalRepository.ListByUser"

	if limit <= 0 {
		limit = 365
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM journal_entries
		 WHERE user_id = $1 AND created_at >= $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID, since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := []*domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetByDay returns the entry for the given calendar day.
func (r *JournalRepository) GetByDay(ctx context.Context, userID int64, day time.Time) (*domain.JournalEntry, error) {
	const op = "repository.JournalRepository.GetByDay"

	e, err := scanEntry(r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE user_id = $1 AND entry_day = $2`,
		userID, day,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// CountByUser returns how many entries the user has written.
func (r *JournalRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	const op = "repository.JournalRepository.CountByUser"

	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		e    domain.JournalEntry
		mood string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Content, &mood, &e.Confidence, &e.AIAnalysis,
		&e.WordCount, &e.CoinsEarned, &e.EntryDay, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Mood = domain.Mood(mood)
	return &e, nil
}
