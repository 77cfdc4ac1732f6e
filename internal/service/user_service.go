package service

import (
	"context"
	"fmt"
	"strings"

	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = defaultPageSize
	case f.Limit > maxPageSize:
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.users.List(ctx, f)
}

// Create 不做存在性预检，唯一冲突由存储返回 domain.ErrDuplicate
func (s *UserService) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Username:     strings.TrimSpace(username),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
