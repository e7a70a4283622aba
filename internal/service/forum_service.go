package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"mindpal/internal/domain"
	"mindpal/internal/logger"
)

const defaultCategory = "general"

// ForumService owns forum state through its store and announces every change
// on the forum relay room.
type ForumService struct {
	store  ForumStore
	relay  Broadcaster
	quests QuestRecorder
}

func NewForumService(store ForumStore, relay Broadcaster, quests QuestRecorder) *ForumService {
	if relay == nil {
		relay = nopBroadcaster{}
	}
	if quests == nil {
		quests = nopRecorder{}
	}
	return &ForumService{store: store, relay: relay, quests: quests}
}

func (s *ForumService) ListTopics(ctx context.Context, limit, offset int) ([]*domain.Topic, error) {
	const op = "service.ForumService.ListTopics"

	ts, err := s.store.ListTopics(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ts, nil
}

func (s *ForumService) GetTopic(ctx context.Context, id int64) (*domain.TopicWithReplies, error) {
	const op = "service.ForumService.GetTopic"

	t, err := s.store.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	replies, err := s.store.ListReplies(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &domain.TopicWithReplies{Topic: t, Replies: replies}, nil
}

func (s *ForumService) CreateTopic(ctx context.Context, authorID int64, title, body, category string) (*domain.Topic, error) {
	const op = "service.ForumService.CreateTopic"

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = defaultCategory
	}

	if n := utf8.RuneCountInString(title); n < domain.MinTopicTitle || n > domain.MaxTopicTitle {
		return nil, domain.NewValidationError("title",
			fmt.Sprintf("must be %d to %d characters", domain.MinTopicTitle, domain.MaxTopicTitle))
	}
	if n := utf8.RuneCountInString(body); n == 0 || n > domain.MaxTopicBody {
		return nil, domain.NewValidationError("body",
			fmt.Sprintf("must be 1 to %d characters", domain.MaxTopicBody))
	}

	t := &domain.Topic{AuthorID: authorID, Title: title, Body: body, Category: category}
	if err := s.store.CreateTopic(ctx, t); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.relay.Broadcast(domain.ForumRoom, domain.EventTopicCreated, t)
	s.recordPost(ctx, authorID)
	return t, nil
}

func (s *ForumService) Reply(ctx context.Context, authorID, topicID int64, body string) (*domain.Reply, error) {
	const op = "service.ForumService.Reply"

	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > domain.MaxReplyBody {
		return nil, domain.NewValidationError("body",
			fmt.Sprintf("must be 1 to %d characters", domain.MaxReplyBody))
	}

	r := &domain.Reply{TopicID: topicID, AuthorID: authorID, Body: body}
	if err := s.store.CreateReply(ctx, r); err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.relay.Broadcast(domain.ForumRoom, domain.EventReplyCreated, r)
	s.recordPost(ctx, authorID)
	return r, nil
}

// LikeEvent is the payload of a topic_liked event.
type LikeEvent struct {
	TopicID int64 `json:"topicId"`
	UserID  int64 `json:"userId"`
	Likes   int   `json:"likes"`
}

// LikeTopic likes a topic once per user. Repeated likes return the current
// count and broadcast nothing.
func (s *ForumService) LikeTopic(ctx context.Context, userID, topicID int64) (*LikeEvent, error) {
	const op = "service.ForumService.LikeTopic"

	likes, liked, err := s.store.LikeTopic(ctx, topicID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTopicNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ev := &LikeEvent{TopicID: topicID, UserID: userID, Likes: likes}
	if liked {
		s.relay.Broadcast(domain.ForumRoom, domain.EventTopicLiked, ev)
	}
	return ev, nil
}

func (s *ForumService) recordPost(ctx context.Context, userID int64) {
	if err := s.quests.Record(ctx, userID, domain.QuestEvent{Action: domain.ActionTypeForumPost}); err != nil {
		logger.FromContext(ctx).Warn("forum quest progress not recorded", "user_id", userID, logger.Err(err))
	}
}
