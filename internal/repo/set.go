package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/repo/memory"
)

// Set 一组仓储，按 db.driver 选择 gorm 或内存实现
type Set struct {
	Users      domain.UserRepository
	Categories domain.CategoryRepository
	Products   domain.ProductRepository

	Ping  func(ctx context.Context) error
	Close func() error
}

func NewGormSet(db *gorm.DB) (*Set, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Set{
		Users:      NewUserRepo(db),
		Categories: NewCategoryRepo(db),
		Products:   NewProductRepo(db),
		Ping:       sqlDB.PingContext,
		Close:      sqlDB.Close,
	}, nil
}

func NewMemorySet() *Set {
	s := memory.NewStore()
	return &Set{
		Users:      s.Users(),
		Categories: s.Categories(),
		Products:   s.Products(),
		Ping:       func(context.Context) error { return nil },
		Close:      func() error { return nil },
	}
}

// Migrate 建表（顺序即依赖顺序）
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(domain.Models()...)
}
