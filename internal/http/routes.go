package http

import (
	"mindpal/internal/config"
	"mindpal/internal/http/handlers"
	"mindpal/internal/http/middleware"
	"mindpal/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Hub     *ws.Hub
	Tokens  middleware.TokenParser
	Limiter *middleware.RateLimiter
}

// NewRouter builds the engine with the ambient middleware and all routes.
func NewRouter(cfg *config.Config, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))
	RegisterRoutes(r, cfg, d)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ws", ws.HandleWS(d.Hub, d.Tokens, cfg.AllowedOrigin))

	v1 := r.Group("/api/v1")
	v1.Use(d.Limiter.PerIP("api", cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, cfg, d)
}

func registerAPIRoutes(api *gin.RouterGroup, cfg *config.Config, d Deps) {
	h := d.Handler
	auth := middleware.JWT(d.Tokens)

	authRL := d.Limiter.PerIP("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)

	api.GET("/me", auth, h.Me)
	api.GET("/me/transactions", auth, h.Transactions)
	api.GET("/me/quests", auth, h.GetMyQuests)

	// one entry a day is enforced by the service; this only stops floods
	journalRL := d.Limiter.PerUser("journal", cfg.JournalRateLimit, cfg.JournalRateWindow)
	api.POST("/journal", auth, journalRL, h.SubmitJournal)
	api.GET("/journal", auth, h.ListJournal)
	api.GET("/journal/today", auth, h.TodayJournal)
	api.GET("/analytics/moods", auth, h.MoodAnalytics)

	api.GET("/quests", h.GetQuests)
	api.POST("/quests/:id/claim", auth, h.ClaimQuestReward)

	api.GET("/shop/items", h.ShopItems)
	api.POST("/shop/purchase", auth, h.Purchase)
	api.GET("/pet", auth, h.Pet)
	api.POST("/premium/activate", auth, h.ActivatePremium)

	forum := api.Group("/forum")
	{
		forum.GET("/topics", h.ListTopics)
		forum.GET("/topics/:id", h.GetTopic)
		forum.POST("/topics", auth, h.CreateTopic)
		forum.POST("/topics/:id/replies", auth, h.CreateReply)
		forum.POST("/topics/:id/like", auth, h.LikeTopic)
	}

	api.GET("/leaderboard", auth, h.GetLeaderboard)
}
