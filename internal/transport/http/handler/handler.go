package handler

import (
	"context"
	"net/http"

	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
)

// 依赖在使用方定义，由 service 包实现

type AuthUsecase interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type UserUsecase interface {
	List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error)
	Create(ctx context.Context, username, email, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
}

type CatalogUsecase interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (*domain.Product, error)
}

type message struct {
	Message string `json:"message"`
}

func notFound(err error, msg string) ez.ErrorMapping {
	return ez.ErrorMapping{Err: err, Code: http.StatusNotFound, Msg: msg}
}

func conflict(err error, msg string) ez.ErrorMapping {
	return ez.ErrorMapping{Err: err, Code: http.StatusConflict, Msg: msg}
}
