package main

import (
	"context"
	"flag"
	"os"

	"mindpal/internal/db"
	"mindpal/internal/logger"
	"mindpal/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.MustConnect(context.Background(), dsn)
	defer pool.Close()

	if *down > 0 {
		if err := migrations.Down(pool, *down); err != nil {
			logger.Fatal("rollback failed", logger.Err(err))
		}
		logger.Info("rolled back", "steps", *down)
		return
	}

	if err := migrations.Up(pool); err != nil {
		logger.Fatal("migrate failed", logger.Err(err))
	}
}
