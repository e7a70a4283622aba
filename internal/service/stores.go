package service

import (
	"context"
	"time"

	"mindpal/internal/domain"
)

// The store interfaces are implemented by internal/repository on Postgres
// and by in-memory fakes in tests.

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID int64, fn func(u *domain.User) (*domain.Transaction, error)) (*domain.User, error)
	GetTopByCoins(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	GetRank(ctx context.Context, userID int64) (int, error)
}

type JournalStore interface {
	CreateEntry(ctx context.Context, e *domain.JournalEntry, apply func(u *domain.User) error) (*domain.User, error)
	ListByUser(ctx context.Context, userID int64, since time.Time, limit int) ([]*domain.JournalEntry, error)
	GetByDay(ctx context.Context, userID int64, day time.Time) (*domain.JournalEntry, error)
}

type QuestStore interface {
	GetActiveQuests(ctx context.Context) ([]*domain.Quest, error)
	GetUserQuests(ctx context.Context, userID int64) ([]*domain.UserQuestWithDetails, error)
	GetOrCreateUserQuest(ctx context.Context, userID, questID int64, periodStart time.Time) (*domain.UserQuest, error)
	AdvanceProgress(ctx context.Context, userQuestID int64, quest *domain.Quest, ev domain.QuestEvent, now time.Time) (*domain.UserQuest, bool, error)
	ClaimReward(ctx context.Context, userID, userQuestID int64, credit func(u *domain.User, reward int64)) (*domain.User, int64, error)
}

type ForumStore interface {
	ListTopics(ctx context.Context, limit, offset int) ([]*domain.Topic, error)
	GetTopic(ctx context.Context, id int64) (*domain.Topic, error)
	ListReplies(ctx context.Context, topicID int64) ([]*domain.Reply, error)
	CreateTopic(ctx context.Context, t *domain.Topic) error
	CreateReply(ctx context.Context, r *domain.Reply) error
	LikeTopic(ctx context.Context, topicID, userID int64) (likes int, liked bool, err error)
}

type TransactionStore interface {
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)
}

// Broadcaster fans an event out to everyone in a relay room.
type Broadcaster interface {
	Broadcast(room, eventType string, payload any)
}

// QuestRecorder advances quest progress after user actions.
type QuestRecorder interface {
	Record(ctx context.Context, userID int64, events ...domain.QuestEvent) error
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, any) {}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, int64, ...domain.QuestEvent) error { return nil }
