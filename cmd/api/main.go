package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/core/cache"
	"go-gin-gorm-shop/internal/core/config"
	"go-gin-gorm-shop/internal/core/database"
	"go-gin-gorm-shop/internal/core/logger"
	"go-gin-gorm-shop/internal/core/server"
	"go-gin-gorm-shop/internal/repo"
	"go-gin-gorm-shop/internal/service"
	"go-gin-gorm-shop/internal/transport/http/handler"
	"go-gin-gorm-shop/internal/transport/http/router"
)

func main() {
	os.Exit(run())
}

// run 返回时 defer 已全部执行，返回值即进程退出码
func run() int {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return 1
	}
	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.App.IsProduction(),
		Rotate:      logger.FileRotate(cfg.Log.Rotate),
	})
	defer cleanup()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", zap.Error(err))
		return 1
	}

	// 存储（失败直接 Fatal，日志由 fatal hook 刷盘）
	store := mustOpenStore(cfg, log)
	defer func() { _ = store.Close() }()
	log.Info("store ready", zap.String("driver", cfg.DB.Driver))

	// 缓存可选，连不上就降级为直连存储
	var c *cache.Cache
	if cfg.Redis.Enabled() {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
			c = nil
		}
		cancel()
	}
	defer func() { _ = c.Close() }()

	// JWT + cookie
	jwter, err := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		log.Error("jwt", zap.Error(err))
		return 1
	}
	session := auth.NewSessionCookie(cfg.JWT.CookieName, cfg.JWT.TTL(), cfg.App.IsProduction())
	guard := auth.NewGuard(jwter, session)

	// 依赖
	authSvc := service.NewAuthService(store.Users, jwter)
	userSvc := service.NewUserService(store.Users)
	catalog := service.NewCatalogService(store.Categories, store.Products, c, cfg.Redis.TTL, log.Named("catalog"))

	mods := router.NewRegistry(
		handler.NewAuthHandler(authSvc, session),
		handler.NewMeHandler(userSvc, guard),
		handler.NewUserHandler(userSvc),
		handler.NewCategoryHandler(catalog, guard, cfg.Security.GuardCategoryWrites),
		handler.NewProductHandler(catalog, guard),
	)
	r := router.NewAPIEngine(router.Options{
		Log:  log,
		HTTP: cfg.App.HTTP,
		Health: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("store: %w", err)
			}
			return c.Ping(ctx)
		},
	}, mods)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	srv.ErrorLog = logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("shop api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.Bool("cache", c != nil),
		zap.Bool("guard_category_writes", cfg.Security.GuardCategoryWrites),
	)

	// 异步启动；监听失败走正常退出路径，让 defer 关闭存储和缓存
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	log.Info("shop api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		log.Error("shop api start FAILED", zap.Error(err))
		return 1
	case <-quit:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("shop api stopped gracefully")
	return 0
}

func mustOpenStore(cfg *config.Config, l *zap.Logger) *repo.Set {
	if cfg.DB.Driver == "memory" {
		l.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemorySet()
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.String("dsn", database.MaskDSN(cfg.DB.DSN)), zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(context.Background(), db); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	set, err := repo.NewGormSet(db)
	if err != nil {
		l.Fatal("db pool", zap.Error(err))
	}
	return set
}
