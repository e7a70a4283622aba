package repository

import (
	"context"
	"errors"
	"fmt"

	"mindpal/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const topicSelect = `SELECT t.id, t.author_id, u.username, t.title, t.body, t.category, t.likes, t.reply_count, t.created_at
	FROM forum_topics t
	JOIN users u ON u.id = t.author_id`

type ForumRepository struct {
	db *pgxpool.Pool
}

func NewForumRepository(db *pgxpool.Pool) *ForumRepository {
	return &ForumRepository{db: db}
}

// ListTopics returns topics newest first.
func (r *ForumRepository) ListTopics(ctx context.Context, limit, offset int) ([]*domain.Topic, error) {
	const op = "repository.ForumRepository.ListTopics"

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		topicSelect+` ORDER BY t.created_at DESC, t.id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := []*domain.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (r *ForumRepository) GetTopic(ctx context.Context, id int64) (*domain.Topic, error) {
	const op = "repository.ForumRepository.GetTopic"

	t, err := scanTopic(r.db.QueryRow(ctx, topicSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTopicNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListReplies returns the topic's replies oldest first.
func (r *ForumRepository) ListReplies(ctx context.Context, topicID int64) ([]*domain.Reply, error) {
	const op = "repository.ForumRepository.ListReplies"

	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.topic_id, r.author_id, u.username, r.body, r.created_at
		 FROM forum_replies r
		 JOIN users u ON u.id = r.author_id
		 WHERE r.topic_id = $1
		 ORDER BY r.created_at, r.id`,
		topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	res := []*domain.Reply{}
	for rows.Next() {
		var rp domain.Reply
		if err := rows.Scan(&rp.ID, &rp.TopicID, &rp.AuthorID, &rp.AuthorName, &rp.Body, &rp.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		res = append(res, &rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// CreateTopic inserts t and fills in id, author name and timestamps.
func (r *ForumRepository) CreateTopic(ctx context.Context, t *domain.Topic) error {
	const op = "repository.ForumRepository.CreateTopic"

	err := r.db.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO forum_topics (author_id, title, body, category)
			VALUES ($1, $2, $3, $4)
			RETURNING id, author_id, likes, reply_count, created_at
		)
		SELECT ins.id, u.username, ins.likes, ins.reply_count, ins.created_at
		FROM ins JOIN users u ON u.id = ins.author_id`,
		t.AuthorID, t.Title, t.Body, t.Category,
	).Scan(&t.ID, &t.AuthorName, &t.Likes, &t.ReplyCount, &t.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateReply inserts the reply and bumps the topic's reply counter.
func (r *ForumRepository) CreateReply(ctx context.Context, rp *domain.Reply) error {
	const op = "repository.ForumRepository.CreateReply"

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE forum_topics SET reply_count = reply_count + 1 WHERE id = $1`, rp.TopicID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTopicNotFound
		}

		return tx.QueryRow(ctx,
			`WITH ins AS (
				INSERT INTO forum_replies (topic_id, author_id, body)
				VALUES ($1, $2, $3)
				RETURNING id, author_id, created_at
			)
			SELECT ins.id, u.username, ins.created_at
			FROM ins JOIN users u ON u.id = ins.author_id`,
			rp.TopicID, rp.AuthorID, rp.Body,
		).Scan(&rp.ID, &rp.AuthorName, &rp.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LikeTopic records one like per user and returns the topic's like count.
// liked is false when the user had already liked the topic.
func (r *ForumRepository) LikeTopic(ctx context.Context, topicID, userID int64) (likes int, liked bool, err error) {
	const op = "repository.ForumRepository.LikeTopic"

	err = inTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO forum_topic_likes (topic_id, user_id)
			 VALUES ($1, $2)
			 ON CONFLICT (topic_id, user_id) DO NOTHING`,
			topicID, userID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrTopicNotFound
			}
			return err
		}
		liked = tag.RowsAffected() == 1

		q := `SELECT likes FROM forum_topics WHERE id = $1`
		if liked {
			q = `UPDATE forum_topics SET likes = likes + 1 WHERE id = $1 RETURNING likes`
		}
		if err := tx.QueryRow(ctx, q, topicID).Scan(&likes); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTopicNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return likes, liked, nil
}

func scanTopic(row pgx.Row) (*domain.Topic, error) {
	var t domain.Topic
	if err := row.Scan(&t.ID, &t.AuthorID, &t.AuthorName, &t.Title, &t.Body, &t.Category,
		&t.Likes, &t.ReplyCount, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
