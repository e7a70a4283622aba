package domain

import "time"

// Coin ledger entry types
const (
	TxTypeJournalReward = "journal_reward"
	TxTypeQuestReward   = "quest_reward"
	TxTypeShopPurchase  = "shop_purchase"
)

type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"userId"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"createdAt"`
}
