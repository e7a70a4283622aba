package handlers

import (
	"context"
	"strconv"

	"mindpal/internal/analytics"
	"mindpal/internal/domain"
	"mindpal/internal/http/middleware"
	"mindpal/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

type JournalService interface {
	Submit(ctx context.Context, userID int64, req service.SubmitRequest) (*service.SubmitResult, error)
	List(ctx context.Context, userID int64, days int) ([]*domain.JournalEntry, error)
	Today(ctx context.Context, userID int64) (*domain.JournalEntry, error)
}

type AnalyticsService interface {
	Moods(ctx context.Context, userID int64, days int) (analytics.MoodAnalytics, error)
}

type QuestService interface {
	Active(ctx context.Context) ([]*domain.Quest, error)
	ForUser(ctx context.Context, userID int64) ([]*domain.QuestWithProgress, error)
	Claim(ctx context.Context, userID, userQuestID int64) (*domain.User, int64, error)
}

type ShopService interface {
	Catalog() []domain.ShopItem
	Purchase(ctx context.Context, userID int64, itemID string) (*domain.User, error)
	Pet(ctx context.Context, userID int64) (*service.PetView, error)
	ActivatePremium(ctx context.Context, userID int64) (*domain.User, error)
}

type UserService interface {
	Me(ctx context.Context, userID int64) (*service.Profile, error)
	Leaderboard(ctx context.Context, userID int64, limit int) (*service.Leaderboard, error)
	Transactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)
}

type ForumService interface {
	ListTopics(ctx context.Context, limit, offset int) ([]*domain.Topic, error)
	GetTopic(ctx context.Context, id int64) (*domain.TopicWithReplies, error)
	CreateTopic(ctx context.Context, authorID int64, title, body, category string) (*domain.Topic, error)
	Reply(ctx context.Context, authorID, topicID int64, body string) (*domain.Reply, error)
	LikeTopic(ctx context.Context, userID, topicID int64) (*service.LikeEvent, error)
}

// Handler serves the JSON API on top of the services.
type Handler struct {
	Auth      AuthService
	Journal   JournalService
	Analytics AnalyticsService
	Quests    QuestService
	Shop      ShopService
	Users     UserService
	Forum     ForumService
}

// getUserID returns the id stored by middleware.JWT.
func getUserID(c *gin.Context) (int64, bool) {
	id := c.GetInt64(middleware.UserIDKey)
	return id, id != 0
}

// queryInt reads a non-negative integer query parameter, falling back to def.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
