package auth

import "net/http"

// Guard 只读请求：取 token → 校验 → （可选）比对角色
type Guard struct {
	Codec   *JWTer
	Session SessionCookie
}

func NewGuard(codec *JWTer, session SessionCookie) *Guard {
	return &Guard{Codec: codec, Session: session}
}

func (g *Guard) Authenticate(r *http.Request) (*Claims, bool) {
	tok := g.Session.TokenFromRequest(r)
	if tok == "" {
		return nil, false
	}
	c, err := g.Codec.Parse(tok)
	if err != nil {
		return nil, false
	}
	return c, true
}

// Authorize 精确匹配角色，admin 不会自动满足 customer
func (g *Guard) Authorize(r *http.Request, role string) (*Claims, bool) {
	c, ok := g.Authenticate(r)
	if !ok || c.Role != role {
		return nil, false
	}
	return c, true
}
