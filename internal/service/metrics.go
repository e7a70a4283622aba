package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	JournalSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_submissions_total",
			Help: "Accepted journal entries by mood",
		},
		[]string{"mood"},
	)
	JournalDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_duplicate_rejections_total",
			Help: "Journal submissions rejected because the user already wrote today",
		},
	)
	CoinsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coins_awarded_total",
			Help: "Coins credited to users by source",
		},
		[]string{"source"},
	)
	ShopPurchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_purchases_total",
			Help: "Completed shop purchases by item",
		},
		[]string{"item"},
	)
)

func init() {
	prometheus.MustRegister(JournalSubmissions)
	prometheus.MustRegister(JournalDuplicates)
	prometheus.MustRegister(CoinsAwarded)
	prometheus.MustRegister(ShopPurchases)
}
