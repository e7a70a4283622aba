package repository

import (
	"context"
	"errors"
	"fmt"

	"mindpal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and fills in the generated fields.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const op = "repository.UserRepository.Create"

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash, pet_happiness, pet_health, level)
		 VALUES ($1, $2, $3, $4, $5, 1)
		 RETURNING id, level, pet_happiness, pet_health, pet_items, created_at`,
		u.Email, u.Username, u.PasswordHash, domain.InitialPetHappiness, domain.InitialPetHealth,
	).Scan(&u.ID, &u.Level, &u.Pet.Happiness, &u.Pet.Health, &u.Pet.Items, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const op = "repository.UserRepository.GetByID"

	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "repository.UserRepository.GetByEmail"

	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update locks the user row, lets fn mutate the user and writes it back.
// A non-nil transaction returned by fn is recorded in the coin ledger.
// Nothing is written when fn fails.
func (r *UserRepository) Update(ctx context.Context, userID int64, fn func(u *domain.User) (*domain.Transaction, error)) (*domain.User, error) {
	const op = "repository.UserRepository.Update"

	var updated *domain.User
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		ledger, err := fn(u)
		if err != nil {
			return err
		}

		if err := saveUserStats(ctx, tx, u); err != nil {
			return err
		}
		if ledger != nil {
			ledger.UserID = u.ID
			if err := insertTransaction(ctx, tx, ledger); err != nil {
				return err
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

// GetTopByCoins returns the leaderboard ordered by lifetime coins.
func (r *UserRepository) GetTopByCoins(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	const op = "repository.UserRepository.GetTopByCoins"

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, username, total_coins, level, current_streak
		FROM users
		ORDER BY total_coins DESC, max_streak DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := make([]domain.LeaderboardEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalCoins, &e.Level, &e.CurrentStreak); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		e.Rank = rank
		res = append(res, e)
		rank++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetRank returns the 1-based position of the user on the leaderboard.
func (r *UserRepository) GetRank(ctx context.Context, userID int64) (int, error) {
	const op = "repository.UserRepository.GetRank"

	var rank int
	err := r.db.QueryRow(ctx, `
		WITH ranked AS (
			SELECT id, RANK() OVER (ORDER BY total_coins DESC) AS rank
			FROM users
		)
		SELECT rank FROM ranked WHERE id = $1`, userID).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rank, nil
}
