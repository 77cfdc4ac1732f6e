package auth

import (
	"net/http"
	"strings"
	"time"
)

const DefaultCookieName = "token"

// SessionCookie 负责把 token 放进 / 移出 http-only cookie
type SessionCookie struct {
	Name   string
	Path   string
	MaxAge time.Duration
	Secure bool
}

func NewSessionCookie(name string, maxAge time.Duration, secure bool) SessionCookie {
	if name == "" {
		name = DefaultCookieName
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return SessionCookie{Name: name, Path: "/", MaxAge: maxAge, Secure: secure}
}

func (s SessionCookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     s.Path,
		MaxAge:   int(s.MaxAge / time.Second),
		Expires:  time.Now().Add(s.MaxAge),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear 下发一个已过期的 cookie；token 本身并不会失效
func (s SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     s.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest 先取 cookie，再取 Authorization: Bearer
func (s SessionCookie) TokenFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(s.Name); err == nil && ck.Value != "" {
		return ck.Value
	}
	ah := r.Header.Get("Authorization")
	parts := strings.SplitN(ah, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
