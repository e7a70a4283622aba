package domain

import "time"

const (
	InitialPetHappiness = 50
	InitialPetHealth    = 100
)

// Pet is the virtual companion attached to every user.
type Pet struct {
	Happiness int      `db:"pet_happiness" json:"happiness"`
	Health    int      `db:"pet_health" json:"health"`
	Items     []string `db:"pet_items" json:"items"`
}

// HasItem reports whether the pet already owns the item.
func (p *Pet) HasItem(itemID string) bool {
	for _, it := range p.Items {
		if it == itemID {
			return true
		}
	}
	return false
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`

	// TotalCoins only ever grows and drives the level. Coins is the spendable balance.
	TotalCoins      int64      `db:"total_coins" json:"totalCoins"`
	Coins           int64      `db:"coins" json:"coins"`
	CurrentStreak   int        `db:"current_streak" json:"currentStreak"`
	MaxStreak       int        `db:"max_streak" json:"maxStreak"`
	LastJournalDate *time.Time `db:"last_journal_date" json:"lastJournalDate,omitempty"`
	Level           int        `db:"level" json:"level"`
	IsPremium       bool       `db:"is_premium" json:"isPremium"`

	Pet Pet `json:"pet"`
}

// LeaderboardEntry is a public projection of a user for rankings.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	TotalCoins    int64  `json:"totalCoins"`
	Level         int    `json:"level"`
	CurrentStreak int    `json:"currentStreak"`
}
