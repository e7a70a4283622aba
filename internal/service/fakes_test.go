package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"mindpal/internal/domain"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same invariants: one entry per user and day, all-or-nothing updates.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*domain.User
	entries []*domain.JournalEntry
	ledger  []*domain.Transaction

	quests     []*domain.Quest
	userQuests []*domain.UserQuest

	topics  []*domain.Topic
	replies []*domain.Reply
	likes   map[[2]int64]bool

	now func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: map[int64]*domain.User{},
		likes: map[[2]int64]bool{},
		now:   time.Now,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Pet.Items = append([]string{}, u.Pet.Items...)
	if u.LastJournalDate != nil {
		t := *u.LastJournalDate
		c.LastJournalDate = &t
	}
	return &c
}

func (m *memStore) addUser(u *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	if u.Level == 0 {
		u.Level = 1
	}
	if u.Pet.Items == nil {
		u.Pet.Items = []string{}
	}
	m.users[u.ID] = cloneUser(u)
	return u
}

// UserStore

func (m *memStore) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			m.mu.Unlock()
			return domain.ErrEmailTaken
		}
	}
	m.mu.Unlock()
	u.CreatedAt = m.now()
	m.addUser(u)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) Update(_ context.Context, userID int64, fn func(u *domain.User) (*domain.Transaction, error)) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := cloneUser(stored)
	tx, err := fn(u)
	if err != nil {
		return nil, err
	}
	m.users[userID] = cloneUser(u)
	if tx != nil {
		tx.UserID = userID
		tx.ID = m.id()
		m.ledger = append(m.ledger, tx)
	}
	return u, nil
}

func (m *memStore) GetTopByCoins(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalCoins != users[j].TotalCoins {
			return users[i].TotalCoins > users[j].TotalCoins
		}
		return users[i].ID < users[j].ID
	})
	res := []domain.LeaderboardEntry{}
	for i, u := range users {
		if i == limit {
			break
		}
		res = append(res, domain.LeaderboardEntry{
			Rank: i + 1, UserID: u.ID, Username: u.Username,
			TotalCoins: u.TotalCoins, Level: u.Level, CurrentStreak: u.CurrentStreak,
		})
	}
	return res, nil
}

func (m *memStore) GetRank(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	rank := 1
	for _, other := range m.users {
		if other.TotalCoins > u.TotalCoins {
			rank++
		}
	}
	return rank, nil
}

// JournalStore

func (m *memStore) CreateEntry(_ context.Context, e *domain.JournalEntry, apply func(u *domain.User) error) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[e.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, other := range m.entries {
		if other.UserID == e.UserID && other.EntryDay.Equal(e.EntryDay) {
			return nil, domain.ErrAlreadyJournaledToday
		}
	}
	u := cloneUser(stored)
	if err := apply(u); err != nil {
		return nil, err
	}

	e.ID = m.id()
	e.CreatedAt = m.now()
	saved := *e
	m.entries = append(m.entries, &saved)
	m.users[u.ID] = cloneUser(u)
	if e.CoinsEarned > 0 {
		m.ledger = append(m.ledger, &domain.Transaction{
			ID: m.id(), UserID: u.ID, Type: domain.TxTypeJournalReward, Amount: int64(e.CoinsEarned),
		})
	}
	return u, nil
}

func (m *memStore) ListByUser(_ context.Context, userID int64, since time.Time, _ int) ([]*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []*domain.JournalEntry{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			c := *e
			res = append(res, &c)
		}
	}
	return res, nil
}

func (m *memStore) GetByDay(_ context.Context, userID int64, day time.Time) (*domain.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.UserID == userID && e.EntryDay.Equal(day) {
			c := *e
			return &c, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

// TransactionStore

func (m *memStore) GetByUserID(_ context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []*domain.Transaction{}
	for i := len(m.ledger) - 1; i >= 0 && (limit <= 0 || len(res) < limit); i-- {
		if m.ledger[i].UserID == userID {
			res = append(res, m.ledger[i])
		}
	}
	return res, nil
}

// QuestStore

func (m *memStore) GetActiveQuests(context.Context) ([]*domain.Quest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []*domain.Quest{}
	for _, q := range m.quests {
		if q.IsActive {
			res = append(res, q)
		}
	}
	return res, nil
}

func (m *memStore) questByID(id int64) *domain.Quest {
	for _, q := range m.quests {
		if q.ID == id {
			return q
		}
	}
	return nil
}

func (m *memStore) GetUserQuests(_ context.Context, userID int64) ([]*domain.UserQuestWithDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []*domain.UserQuestWithDetails{}
	for _, uq := range m.userQuests {
		if uq.UserID != userID {
			continue
		}
		q := m.questByID(uq.QuestID)
		res = append(res, &domain.UserQuestWithDetails{UserQuest: *uq, Quest: *q})
	}
	return res, nil
}

func (m *memStore) GetOrCreateUserQuest(_ context.Context, userID, questID int64, periodStart time.Time) (*domain.UserQuest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.questByID(questID) == nil {
		return nil, domain.ErrQuestNotFound
	}
	for _, uq := range m.userQuests {
		if uq.UserID == userID && uq.QuestID == questID && uq.PeriodStart.Equal(periodStart) {
			c := *uq
			return &c, nil
		}
	}
	uq := &domain.UserQuest{
		ID: m.id(), UserID: userID, QuestID: questID,
		StartedAt: m.now(), PeriodStart: periodStart,
	}
	m.userQuests = append(m.userQuests, uq)
	c := *uq
	return &c, nil
}

func (m *memStore) AdvanceProgress(_ context.Context, userQuestID int64, quest *domain.Quest, ev domain.QuestEvent, now time.Time) (*domain.UserQuest, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.userQuests {
		if stored.ID == userQuestID {
			if !stored.Apply(quest, ev, now) {
				return nil, false, nil
			}
			c := *stored
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (m *memStore) ClaimReward(_ context.Context, userID, userQuestID int64, credit func(u *domain.User, reward int64)) (*domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[userID]
	if !ok {
		return nil, 0, domain.ErrUserNotFound
	}
	for _, uq := range m.userQuests {
		if uq.ID != userQuestID || uq.UserID != userID || !uq.CanClaim() {
			continue
		}
		reward := m.questByID(uq.QuestID).RewardCoins
		now := m.now()
		uq.RewardClaimed = true
		uq.RewardClaimedAt = &now

		u := cloneUser(stored)
		credit(u, reward)
		m.users[userID] = cloneUser(u)
		m.ledger = append(m.ledger, &domain.Transaction{
			ID: m.id(), UserID: userID, Type: domain.TxTypeQuestReward, Amount: reward,
		})
		return u, reward, nil
	}
	return nil, 0, domain.ErrQuestNotClaimable
}

// ForumStore

func (m *memStore) ListTopics(_ context.Context, limit, offset int) ([]*domain.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []*domain.Topic{}
	for i := len(m.topics) - 1 - offset; i >= 0 && (limit <= 0 || len(res) < limit); i-- {
		c := *m.topics[i]
		res = append(res, &c)
	}
	return res, nil
}

func (m *memStore) topic(id int64) *domain.Topic {
	for _, t := range m.topics {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (m *memStore) GetTopic(_ context.Context, id int64) (*domain.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.topic(id)
	if t == nil {
		return nil, domain.ErrTopicNotFound
	}
	c := *t
	return &c, nil
}

func (m *memStore) ListReplies(_ context.Context, topicID int64) ([]*domain.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []*domain.Reply{}
	for _, r := range m.replies {
		if r.TopicID == topicID {
			c := *r
			res = append(res, &c)
		}
	}
	return res, nil
}

func (m *memStore) CreateTopic(_ context.Context, t *domain.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	author, ok := m.users[t.AuthorID]
	if !ok {
		return domain.ErrUserNotFound
	}
	t.ID = m.id()
	t.AuthorName = author.Username
	t.CreatedAt = m.now()
	c := *t
	m.topics = append(m.topics, &c)
	return nil
}

func (m *memStore) CreateReply(_ context.Context, r *domain.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.topic(r.TopicID)
	if t == nil {
		return domain.ErrTopicNotFound
	}
	t.ReplyCount++
	r.ID = m.id()
	if author, ok := m.users[r.AuthorID]; ok {
		r.AuthorName = author.Username
	}
	r.CreatedAt = m.now()
	c := *r
	m.replies = append(m.replies, &c)
	return nil
}

func (m *memStore) LikeTopic(_ context.Context, topicID, userID int64) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.topic(topicID)
	if t == nil {
		return 0, false, domain.ErrTopicNotFound
	}
	key := [2]int64{topicID, userID}
	if m.likes[key] {
		return t.Likes, false, nil
	}
	m.likes[key] = true
	t.Likes++
	return t.Likes, true, nil
}

// recordingRelay captures broadcasts.
type recordingRelay struct {
	mu     sync.Mutex
	events []relayEvent
}

type relayEvent struct {
	Room    string
	Type    string
	Payload any
}

func (r *recordingRelay) Broadcast(room, eventType string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, relayEvent{Room: room, Type: eventType, Payload: payload})
}

func (r *recordingRelay) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// fixedClock returns a settable clock.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
