package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindpal/internal/config"
	"mindpal/internal/db"
	httpServer "mindpal/internal/http"
	"mindpal/internal/http/handlers"
	"mindpal/internal/http/middleware"
	"mindpal/internal/logger"
	"mindpal/internal/migrations"
	"mindpal/internal/repository"
	"mindpal/internal/service"
	"mindpal/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

const (
	questRetention     = 30 * 24 * time.Hour
	questSweepInterval = 6 * time.Hour
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer dbPool.Close()

	if cfg.MigrationsAuto {
		if err := migrations.Up(dbPool); err != nil {
			logger.Fatal("migrations failed", logger.Err(err))
		}
	}

	redisClient := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	users := repository.NewUserRepository(dbPool)
	entries := repository.NewJournalRepository(dbPool)
	questRepo := repository.NewQuestRepository(dbPool)
	forumRepo := repository.NewForumRepository(dbPool)
	transactions := repository.NewTransactionRepository(dbPool)

	hub := ws.NewHub()
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	quests := service.NewQuestService(questRepo, cfg.JournalLocation)

	h := &handlers.Handler{
		Auth: service.NewAuthService(users, tokens),
		Journal: service.NewJournalService(entries, cfg.JournalLocation,
			service.WithQuestRecorder(quests),
			service.WithBroadcaster(hub),
		),
		Analytics: service.NewAnalyticsService(entries, cfg.JournalLocation),
		Quests:    quests,
		Shop:      service.NewShopService(users),
		Users:     service.NewUserService(users, transactions, cfg.JournalLocation),
		Forum:     service.NewForumService(forumRepo, hub, quests),
	}

	r := httpServer.NewRouter(cfg, httpServer.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler(dbPool, hub, version),
		Hub:     hub,
		Tokens:  tokens,
		Limiter: middleware.NewRateLimiter(redisClient),
	})

	go sweepQuests(ctx, questRepo)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version, "journal_tz", cfg.JournalLocation.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", logger.Err(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", logger.Err(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

// sweepQuests drops quest progress rows from long-finished periods.
func sweepQuests(ctx context.Context, quests *repository.QuestRepository) {
	ticker := time.NewTicker(questSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := quests.DeleteStale(ctx, time.Now().Add(-questRetention))
			if err != nil {
				logger.Warn("quest sweep failed", logger.Err(err))
				continue
			}
			if n > 0 {
				logger.Info("quest sweep", "deleted", n)
			}
		}
	}
}
