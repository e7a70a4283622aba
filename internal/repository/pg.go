package repository

import (
	"context"
	"errors"
	"fmt"

	"mindpal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error, constraint string) bool {
	code, name := pgErrCode(err)
	return code == pgUniqueViolation && (constraint == "" || name == constraint)
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgErrCode(err)
	return code == pgForeignKeyViolation
}

const userColumns = `id, email, username, password_hash, total_coins, coins, current_streak, max_streak,
	last_journal_date, level, pet_happiness, pet_health, pet_items, is_premium, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.TotalCoins, &u.Coins, &u.CurrentStreak, &u.MaxStreak,
		&u.LastJournalDate, &u.Level,
		&u.Pet.Happiness, &u.Pet.Health, &u.Pet.Items,
		&u.IsPremium, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if u.Pet.Items == nil {
		u.Pet.Items = []string{}
	}
	return &u, nil
}

// lockUser loads the user row inside tx and holds it until commit.
func lockUser(ctx context.Context, tx pgx.Tx, userID int64) (*domain.User, error) {
	return scanUser(tx.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID))
}

// saveUserStats writes back every mutable gamification field.
func saveUserStats(ctx context.Context, q querier, u *domain.User) error {
	items := u.Pet.Items
	if items == nil {
		items = []string{}
	}
	_, err := q.Exec(ctx,
		`UPDATE users
		 SET total_coins = $1, coins = $2, current_streak = $3, max_streak = $4,
		     last_journal_date = $5, level = $6, pet_happiness = $7, pet_health = $8,
		     pet_items = $9, is_premium = $10
		 WHERE id = $11`,
		u.TotalCoins, u.Coins, u.CurrentStreak, u.MaxStreak,
		u.LastJournalDate, u.Level, u.Pet.Happiness, u.Pet.Health,
		items, u.IsPremium, u.ID,
	)
	return err
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
