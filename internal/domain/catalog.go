package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-gin-gorm-shop/pkg/utils"
)

type Category struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	return nil
}

// Product.CategoryID 在写入前必须指向已存在的分类；删除分类时由外键 RESTRICT 兜底
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:191;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;check:chk_products_price,price >= 0" json:"price"`
	Stock       int       `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	CategoryID  string    `gorm:"size:36;not null;index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	return nil
}

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	// Delete 返回被删除的记录
	Delete(ctx context.Context, id string) (*Product, error)
}

// Models 返回需要自动迁移的模型（顺序即依赖顺序）
func Models() []any {
	return []any{&User{}, &Category{}, &Product{}}
}
