package service

import (
	"context"
	"testing"
	"time"

	"mindpal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestFixture(t *testing.T) (*memStore, *fixedClock, *QuestService, *domain.User) {
	t.Helper()

	// a wednesday
	clock := &fixedClock{t: time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)}
	store := newMemStore()
	store.now = clock.Now
	svc := NewQuestService(store, time.UTC)
	svc.now = clock.Now

	store.quests = []*domain.Quest{
		{ID: 1, QuestType: domain.QuestTypeDaily, Title: "Daily Reflection", ActionType: domain.ActionTypeJournal, TargetCount: 1, RewardCoins: 10, IsActive: true},
		{ID: 2, QuestType: domain.QuestTypeWeekly, Title: "Community Voice", ActionType: domain.ActionTypeForumPost, TargetCount: 2, RewardCoins: 20, IsActive: true},
		{ID: 3, QuestType: domain.QuestTypeOneTime, Title: "Week of Words", ActionType: domain.ActionTypeStreak, TargetCount: 7, RewardCoins: 100, IsActive: true},
		{ID: 4, QuestType: domain.QuestTypeDaily, Title: "Retired", ActionType: domain.ActionTypeJournal, TargetCount: 1, RewardCoins: 5, IsActive: false},
	}
	store.nextID = 100
	u := store.addUser(&domain.User{Email: "q@example.com", Username: "q"})
	return store, clock, svc, u
}

func progressFor(t *testing.T, list []*domain.QuestWithProgress, questID int64) *domain.QuestWithProgress {
	t.Helper()
	for _, p := range list {
		if p.Quest.ID == questID {
			return p
		}
	}
	t.Fatalf("quest %d not in list", questID)
	return nil
}

func TestQuests_ActiveHidesInactive(t *testing.T) {
	_, _, svc, _ := newQuestFixture(t)

	qs, err := svc.Active(context.Background())
	require.NoError(t, err)
	assert.Len(t, qs, 3)
}

func TestQuests_RecordAndClaim(t *testing.T) {
	store, _, svc, u := newQuestFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeJournal}))

	list, err := svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	daily := progressFor(t, list, 1)
	assert.True(t, daily.Completed)
	assert.Equal(t, 100, daily.Progress)
	require.NotNil(t, daily.UserQuestID)

	user, reward, err := svc.Claim(ctx, u.ID, *daily.UserQuestID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), reward)
	assert.Equal(t, int64(10), user.TotalCoins)
	assert.Equal(t, int64(10), user.Coins)

	_, _, err = svc.Claim(ctx, u.ID, *daily.UserQuestID)
	require.ErrorIs(t, err, domain.ErrQuestNotClaimable)

	require.Len(t, store.ledger, 1)
	assert.Equal(t, domain.TxTypeQuestReward, store.ledger[0].Type)
}

func TestQuests_ClaimRequiresCompletionAndOwnership(t *testing.T) {
	store, _, svc, u := newQuestFixture(t)
	ctx := context.Background()
	other := store.addUser(&domain.User{Email: "o@example.com", Username: "o"})

	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeForumPost}))
	list, err := svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	weekly := progressFor(t, list, 2)
	assert.Equal(t, 50, weekly.Progress)
	assert.False(t, weekly.Completed)

	_, _, err = svc.Claim(ctx, u.ID, *weekly.UserQuestID)
	require.ErrorIs(t, err, domain.ErrQuestNotClaimable)

	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeForumPost}))
	_, _, err = svc.Claim(ctx, other.ID, *weekly.UserQuestID)
	require.ErrorIs(t, err, domain.ErrQuestNotClaimable)
}

func TestQuests_DailyResetsNextDay(t *testing.T) {
	_, clock, svc, u := newQuestFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeJournal}))
	clock.Set(clock.Now().AddDate(0, 0, 1))

	list, err := svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	daily := progressFor(t, list, 1)
	assert.False(t, daily.Completed)
	assert.Nil(t, daily.UserQuestID)
	assert.Zero(t, daily.Progress)
}

func TestQuests_WeeklySurvivesWithinWeek(t *testing.T) {
	_, clock, svc, u := newQuestFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeForumPost}))
	// sunday of the same week
	clock.Set(time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC))
	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeForumPost}))

	list, err := svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, progressFor(t, list, 2).Completed)

	// next monday starts over
	clock.Set(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
	list, err = svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, progressFor(t, list, 2).Completed)
}

func TestQuests_StreakIsAbsolute(t *testing.T) {
	_, _, svc, u := newQuestFixture(t)
	ctx := context.Background()

	for _, s := range []int{3, 3, 2, 5} {
		require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeStreak, Value: s}))
	}
	list, err := svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	streak := progressFor(t, list, 3)
	assert.Equal(t, 5, streak.CurrentCount)
	assert.False(t, streak.Completed)

	require.NoError(t, svc.Record(ctx, u.ID, domain.QuestEvent{Action: domain.ActionTypeStreak, Value: 7}))
	list, err = svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, progressFor(t, list, 3).Completed)
}
