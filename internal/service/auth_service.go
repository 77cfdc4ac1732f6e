package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/pkg/utils"
)

// TokenIssuer 由 auth.JWTer 实现
type TokenIssuer interface {
	Issue(uid, role string) (string, error)
}

type AuthService struct {
	users  domain.UserRepository
	tokens TokenIssuer
}

func NewAuthService(users domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Register 总是创建 customer；重复 email 返回 domain.ErrEmailTaken
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	switch _, err := s.users.FindByEmail(ctx, email); {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册同一 email
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login 未知 email 与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}

// EnsureAdmin 创建管理员或把已有账号提升为 admin（幂等）；
// created=false 表示账号已存在，此时不修改密码
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (u *domain.User, created bool, err error) {
	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			if err := s.users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = domain.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	u = &domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
