package domain

import (
	"fmt"
	"time"
)

const (
	MinTopicTitle = 3
	MaxTopicTitle = 200
	MaxTopicBody  = 5000
	MaxReplyBody  = 2000
)

type Topic struct {
	ID         int64     `db:"id" json:"id"`
	AuthorID   int64     `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	Category   string    `db:"category" json:"category"`
	Likes      int       `db:"likes" json:"likes"`
	ReplyCount int       `db:"reply_count" json:"replyCount"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type Reply struct {
	ID         int64     `db:"id" json:"id"`
	TopicID    int64     `db:"topic_id" json:"topicId"`
	AuthorID   int64     `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// TopicWithReplies is a topic and its replies in creation order.
type TopicWithReplies struct {
	Topic   *Topic   `json:"topic"`
	Replies []*Reply `json:"replies"`
}

// Forum relay event types
const (
	EventTopicCreated     = "topic_created"
	EventReplyCreated     = "reply_created"
	EventTopicLiked       = "topic_liked"
	EventJournalSubmitted = "journal_submitted"
)

// ForumRoom is the relay room every forum event goes to.
const ForumRoom = "forum"

// UserRoomPrefix starts the name of every private per-user room.
const UserRoomPrefix = "user:"

// UserRoom is the private relay room of a user.
func UserRoom(userID int64) string {
	return fmt.Sprintf("%s%d", UserRoomPrefix, userID)
}
