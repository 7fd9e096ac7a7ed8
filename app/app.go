package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"equiptrack/auth"
	"equiptrack/config"
	"equiptrack/notify"
	"equiptrack/services"
	"equiptrack/session"
	"equiptrack/store"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router   *gin.Engine
	Store    store.Store
	RDB      *redis.Client // nil when Redis is not configured
	Logger   *zap.Logger
	Svc      *services.Service
	Notifier notify.Notifier
	Signer   *auth.Signer
	Config   config.Config

	appSess *session.AppSessionStore
}

// AppSessions returns the Redis session store, or nil when sessions are
// disabled.
func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew(cfg config.Config) *App {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	if err := store.Init(ctx, st, cfg.Bootstrap, logger); err != nil {
		logger.Fatal("init store", zap.Error(err))
	}

	// --- Redis（可选）---
	var rdb *redis.Client
	var appSess *session.AppSessionStore
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: 0})
		pctx, pcancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer pcancel()
		if err := rdb.Ping(pctx).Err(); err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		appSess = session.NewAppSessionStore(rdb, cfg.TokenTTL())
	}

	notifier, err := notify.New(cfg.Notify, st, logger)
	if err != nil {
		logger.Fatal("notifier", zap.Error(err))
	}

	svc := services.New(st, notifier, logger, nil, nil)

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:   r,
		Store:    st,
		RDB:      rdb,
		Logger:   logger,
		Svc:      svc,
		Notifier: notifier,
		Signer:   auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL()),
		Config:   cfg,
		appSess:  appSess,
	}
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if c, ok := a.Notifier.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	_ = a.Store.Close(ctx)
	_ = a.Logger.Sync()
}
