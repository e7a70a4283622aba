package main

import (
	"context"
	"errors"
	"flag"

	"mindpal/internal/config"
	"mindpal/internal/db"
	"mindpal/internal/domain"
	"mindpal/internal/logger"
	"mindpal/internal/repository"
	"mindpal/internal/service"
)

func main() {
	email := flag.String("email", "demo@mindpal.local", "email of the demo user")
	password := flag.String("password", "demo-password", "password of the demo user")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, false)

	ctx := context.Background()
	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	auth := service.NewAuthService(users, service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL))

	res, err := auth.Register(ctx, *email, "demo", *password)
	if errors.Is(err, domain.ErrEmailTaken) {
		res, err = auth.Login(ctx, *email, *password)
	}
	if err != nil {
		logger.Fatal("demo user failed", logger.Err(err))
	}

	logger.Info("demo user ready",
		"id", res.User.ID,
		"email", res.User.Email,
		"coins", res.User.Coins,
		"level", res.User.Level,
	)
	logger.Info("token", "token", res.Token)
}
