package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mihailchern24-dot/taskhub/internal/auth"
	"github.com/mihailchern24-dot/taskhub/internal/config"
	"github.com/mihailchern24-dot/taskhub/internal/handlers"
	"github.com/mihailchern24-dot/taskhub/internal/store"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal("creating schema", zap.Error(err))
	}

	h := handlers.New(cfg, logger,
		auth.NewSessions(cfg.SecretKey),
		store.NewUserRepository(db),
		store.NewTaskRepository(db))

	addr := ":8080"
	if cfg.Port != "" {
		addr = ":" + cfg.Port
	}
	logger.Info("listening", zap.String("addr", addr), zap.String("dialect", string(db.Dialect)))
	if err := h.Router().Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
