package utils

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

func NewID() string { return uuid.NewString() }

// RandomSecret 生成 URL 安全的随机串（用于初始管理员密码）
func RandomSecret(n int) (string, error) {
	if n <= 0 {
		n = 16
	}
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:n], nil
}
