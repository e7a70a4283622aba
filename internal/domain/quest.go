package domain

import "time"

// QuestType controls how often quest progress resets.
type QuestType string

const (
	QuestTypeDaily   QuestType = "daily"
	QuestTypeWeekly  QuestType = "weekly"
	QuestTypeOneTime QuestType = "one_time"
)

// ActionType is the user action a quest counts.
type ActionType string

const (
	ActionTypeJournal         ActionType = "journal"
	ActionTypePositiveJournal ActionType = "positive_journal"
	ActionTypeLongJournal     ActionType = "long_journal"
	ActionTypeForumPost       ActionType = "forum_post"
	// ActionTypeStreak progress is the absolute streak length, not a counter.
	ActionTypeStreak ActionType = "streak"
)

// LongJournalWords is the word count an entry needs to count as long.
const LongJournalWords = 100

type Quest struct {
	ID          int64      `db:"id" json:"id"`
	QuestType   QuestType  `db:"quest_type" json:"questType"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	ActionType  ActionType `db:"action_type" json:"actionType"`
	TargetCount int        `db:"target_count" json:"targetCount"`
	RewardCoins int64      `db:"reward_coins" json:"rewardCoins"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	SortOrder   int        `db:"sort_order" json:"sortOrder"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// UserQuest is a user's progress on one quest for one period.
type UserQuest struct {
	ID              int64      `db:"id" json:"id"`
	UserID          int64      `db:"user_id" json:"userId"`
	QuestID         int64      `db:"quest_id" json:"questId"`
	CurrentCount    int        `db:"current_count" json:"currentCount"`
	Completed       bool       `db:"completed" json:"completed"`
	RewardClaimed   bool       `db:"reward_claimed" json:"rewardClaimed"`
	StartedAt       time.Time  `db:"started_at" json:"startedAt"`
	CompletedAt     *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	RewardClaimedAt *time.Time `db:"reward_claimed_at" json:"rewardClaimedAt,omitempty"`
	PeriodStart     time.Time  `db:"period_start" json:"periodStart"`
}

type UserQuestWithDetails struct {
	UserQuest
	Quest Quest `json:"quest"`
}

// QuestEvent is something a user did that may advance quests.
type QuestEvent struct {
	Action ActionType
	// Value overrides the increment for absolute actions such as streak.
	Value int
}

// PeriodStart returns the start of the quest period containing now.
func PeriodStart(questType QuestType, now time.Time) time.Time {
	switch questType {
	case QuestTypeDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case QuestTypeWeekly:
		// weeks start on monday
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(now.Year(), now.Month(), now.Day()-weekday+1, 0, 0, 0, 0, now.Location())
	case QuestTypeOneTime:
		return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return now
}

// IsExpired reports whether the progress belongs to a period that has ended.
// now must be in the location the period was started in.
func (uq *UserQuest) IsExpired(quest *Quest, now time.Time) bool {
	if quest.QuestType == QuestTypeOneTime {
		return false
	}
	return !uq.PeriodStart.Equal(PeriodStart(quest.QuestType, now))
}

func (uq *UserQuest) CanClaim() bool {
	return uq.Completed && !uq.RewardClaimed
}

// Step returns how the event moves progress on the quest. Absolute steps
// raise the counter to value; the rest add value to it.
func (ev QuestEvent) Step(quest *Quest) (value int, absolute bool) {
	if quest.ActionType == ActionTypeStreak {
		return ev.Value, true
	}
	if ev.Value <= 0 {
		return 1, false
	}
	return ev.Value, false
}

// Apply advances progress by the event and marks completion.
// It reports whether anything changed.
func (uq *UserQuest) Apply(quest *Quest, ev QuestEvent, now time.Time) bool {
	if uq.Completed {
		return false
	}
	value, absolute := ev.Step(quest)
	if absolute {
		if value <= uq.CurrentCount {
			return false
		}
		uq.CurrentCount = value
	} else {
		uq.CurrentCount += value
	}
	if uq.CurrentCount >= quest.TargetCount {
		uq.Completed = true
		uq.CompletedAt = &now
	}
	return true
}

// Progress returns completion percent in [0,100].
func (uq *UserQuest) Progress(targetCount int) int {
	if targetCount <= 0 {
		return 100
	}
	progress := (uq.CurrentCount * 100) / targetCount
	if progress > 100 {
		return 100
	}
	return progress
}

// QuestWithProgress is a quest joined with the caller's progress.
type QuestWithProgress struct {
	Quest         *Quest `json:"quest"`
	CurrentCount  int    `json:"currentCount"`
	TargetCount   int    `json:"targetCount"`
	Completed     bool   `json:"completed"`
	RewardClaimed bool   `json:"rewardClaimed"`
	Progress      int    `json:"progress"`
	UserQuestID   *int64 `json:"userQuestId,omitempty"`
}
