// Command admin 创建管理员账号，或把已有账号提升为 admin。
// 注册接口只会创建 customer，管理员只能从这里产生。
//
//	go run ./cmd/admin -email root@shop.local -username root
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-gorm-shop/internal/core/config"
	"go-gin-gorm-shop/internal/core/database"
	"go-gin-gorm-shop/internal/core/logger"
	"go-gin-gorm-shop/internal/repo"
	"go-gin-gorm-shop/internal/service"
	"go-gin-gorm-shop/pkg/utils"
)

// adminTokens 管理命令不签发 token
type adminTokens struct{}

func (adminTokens) Issue(string, string) (string, error) {
	return "", errors.New("token issuing is not available in the admin command")
}

func main() {
	var (
		email    = flag.String("email", "", "admin email (required)")
		username = flag.String("username", "admin", "username for a newly created account")
		password = flag.String("password", "", "password for a newly created account (generated when empty)")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}
	if cfg.DB.Driver == "memory" {
		log.Fatal("admin command needs a persistent db.driver (postgres or mysql)")
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       2,
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             logger.ToStdLogger(log.Named("gorm"), zapcore.InfoLevel),
	})
	if err != nil {
		log.Fatal("db open", zap.String("dsn", database.MaskDSN(cfg.DB.DSN)), zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(ctx, db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
	}
	store, err := repo.NewGormSet(db)
	if err != nil {
		log.Fatal("db pool", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	generated := false
	if *password == "" {
		if *password, err = utils.RandomSecret(20); err != nil {
			log.Fatal("generate password", zap.Error(err))
		}
		generated = true
	}

	u, created, err := service.NewAuthService(store.Users, adminTokens{}).EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		log.Fatal("ensure admin", zap.String("email", *email), zap.Error(err))
	}
	switch {
	case !created:
		log.Info("existing account is admin now (password unchanged)", zap.String("id", u.ID), zap.String("email", u.Email))
	case generated:
		log.Info("admin created", zap.String("id", u.ID), zap.String("email", u.Email))
		// 只打印一次
		fmt.Printf("generated password: %s\n", *password)
	default:
		log.Info("admin created", zap.String("id", u.ID), zap.String("email", u.Email))
	}
}
