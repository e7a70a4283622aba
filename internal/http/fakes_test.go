package http

import (
	"context"
	"errors"

	"mindpal/internal/analytics"
	"mindpal/internal/domain"
	"mindpal/internal/service"
)

var errNotStubbed = errors.New("not stubbed")

type fakeAuth struct {
	register func(email, username, password string) (*service.AuthResult, error)
}

func (f *fakeAuth) Register(_ context.Context, email, username, password string) (*service.AuthResult, error) {
	if f.register == nil {
		return nil, errNotStubbed
	}
	return f.register(email, username, password)
}

func (f *fakeAuth) Login(context.Context, string, string) (*service.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

type fakeJournal struct {
	submit   func(userID int64, req service.SubmitRequest) (*service.SubmitResult, error)
	listDays int
}

func (f *fakeJournal) Submit(_ context.Context, userID int64, req service.SubmitRequest) (*service.SubmitResult, error) {
	return f.submit(userID, req)
}

func (f *fakeJournal) List(_ context.Context, _ int64, days int) ([]*domain.JournalEntry, error) {
	f.listDays = days
	return []*domain.JournalEntry{}, nil
}

func (f *fakeJournal) Today(context.Context, int64) (*domain.JournalEntry, error) {
	return nil, domain.ErrEntryNotFound
}

type fakeAnalytics struct{}

func (fakeAnalytics) Moods(context.Context, int64, int) (analytics.MoodAnalytics, error) {
	return analytics.MoodAnalytics{}, nil
}

type fakeQuests struct {
	claimed int64
}

func (f *fakeQuests) Active(context.Context) ([]*domain.Quest, error) {
	return []*domain.Quest{{ID: 1, Title: "Daily journal"}}, nil
}

func (f *fakeQuests) ForUser(context.Context, int64) ([]*domain.QuestWithProgress, error) {
	return []*domain.QuestWithProgress{}, nil
}

func (f *fakeQuests) Claim(_ context.Context, _ int64, userQuestID int64) (*domain.User, int64, error) {
	f.claimed = userQuestID
	return &domain.User{Coins: 45, TotalCoins: 95, Level: 1}, 25, nil
}

type fakeShop struct {
	purchase func(itemID string) (*domain.User, error)
}

func (f *fakeShop) Catalog() []domain.ShopItem { return domain.ShopCatalog() }

func (f *fakeShop) Purchase(_ context.Context, _ int64, itemID string) (*domain.User, error) {
	return f.purchase(itemID)
}

func (f *fakeShop) Pet(context.Context, int64) (*service.PetView, error) {
	return &service.PetView{}, nil
}

func (f *fakeShop) ActivatePremium(context.Context, int64) (*domain.User, error) {
	return &domain.User{IsPremium: true}, nil
}

type fakeUsers struct {
	limit int
}

func (f *fakeUsers) Me(_ context.Context, userID int64) (*service.Profile, error) {
	return &service.Profile{User: &domain.User{ID: userID, Username: "ana"}}, nil
}

func (f *fakeUsers) Leaderboard(_ context.Context, _ int64, limit int) (*service.Leaderboard, error) {
	f.limit = limit
	return &service.Leaderboard{Entries: []domain.LeaderboardEntry{}, MyRank: 3}, nil
}

func (f *fakeUsers) Transactions(context.Context, int64, int) ([]*domain.Transaction, error) {
	return []*domain.Transaction{}, nil
}

type fakeForum struct {
	topics []*domain.Topic
}

func (f *fakeForum) ListTopics(context.Context, int, int) ([]*domain.Topic, error) {
	return f.topics, nil
}

func (f *fakeForum) GetTopic(_ context.Context, id int64) (*domain.TopicWithReplies, error) {
	for _, t := range f.topics {
		if t.ID == id {
			return &domain.TopicWithReplies{Topic: t}, nil
		}
	}
	return nil, domain.ErrTopicNotFound
}

func (f *fakeForum) CreateTopic(_ context.Context, authorID int64, title, body, category string) (*domain.Topic, error) {
	t := &domain.Topic{ID: int64(len(f.topics) + 1), AuthorID: authorID, Title: title, Body: body, Category: category}
	f.topics = append(f.topics, t)
	return t, nil
}

func (f *fakeForum) Reply(context.Context, int64, int64, string) (*domain.Reply, error) {
	return nil, domain.ErrTopicNotFound
}

func (f *fakeForum) LikeTopic(_ context.Context, userID, topicID int64) (*service.LikeEvent, error) {
	return &service.LikeEvent{TopicID: topicID, UserID: userID, Likes: 1}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
