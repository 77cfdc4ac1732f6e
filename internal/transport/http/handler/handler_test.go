package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
)

var errBoom = errors.New("pq: connection refused at 10.0.0.7:5432")

// fakeCatalog 每个方法都返回 err
type fakeCatalog struct{ err error }

func (f fakeCatalog) ListCategories(context.Context) ([]domain.Category, error) { return nil, f.err }
func (f fakeCatalog) GetCategory(context.Context, string) (*domain.Category, error) {
	return nil, f.err
}
func (f fakeCatalog) CreateCategory(context.Context, *domain.Category) error { return f.err }
func (f fakeCatalog) UpdateCategory(context.Context, *domain.Category) error { return f.err }
func (f fakeCatalog) DeleteCategory(context.Context, string) error           { return f.err }
func (f fakeCatalog) ListProducts(context.Context) ([]domain.Product, error) { return nil, f.err }
func (f fakeCatalog) GetProduct(context.Context, string) (*domain.Product, error) {
	return nil, f.err
}
func (f fakeCatalog) CreateProduct(context.Context, *domain.Product) error { return f.err }
func (f fakeCatalog) UpdateProduct(context.Context, *domain.Product) (*domain.Product, error) {
	return nil, f.err
}
func (f fakeCatalog) DeleteProduct(context.Context, string) (*domain.Product, error) {
	return nil, f.err
}

type fakeAuth struct{ err error }

func (f fakeAuth) Register(context.Context, string, string, string) (*domain.User, error) {
	return nil, f.err
}
func (f fakeAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, f.err
}

type fakeUsers struct {
	user *domain.User
	err  error
}

func (f fakeUsers) List(context.Context, domain.UserFilter) ([]domain.User, int64, error) {
	return nil, 0, f.err
}
func (f fakeUsers) Create(context.Context, string, string, string) (*domain.User, error) {
	return f.user, f.err
}
func (f fakeUsers) Get(context.Context, string) (*domain.User, error) { return f.user, f.err }

func testGuard(t *testing.T) (*auth.Guard, *auth.JWTer) {
	t.Helper()
	j, err := auth.NewJWTer("handler-secret", "", time.Hour)
	require.NoError(t, err)
	return auth.NewGuard(j, auth.NewSessionCookie("token", time.Hour, false)), j
}

func mount(mods ...interface{ MountAPI(ez.EZ) }) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := ez.New(r.Group("/api"), nil)
	for _, m := range mods {
		m.MountAPI(e)
	}
	return r
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func call(t *testing.T, r http.Handler, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestCatalogInternalErrorsDoNotLeak(t *testing.T) {
	g, j := testGuard(t)
	admin, err := j.Issue("a-1", "admin")
	require.NoError(t, err)
	cat := fakeCatalog{err: errBoom}
	r := mount(NewCategoryHandler(cat, g, false), NewProductHandler(cat, g))

	product := gin.H{"name": "x", "price": 1, "stock": 1, "category_id": "c"}
	cases := []struct {
		method, path string
		body         any
		msg          string
	}{
		{http.MethodGet, "/api/categories", nil, "list categories failed"},
		{http.MethodPost, "/api/categories", gin.H{"name": "x"}, "create category failed"},
		{http.MethodGet, "/api/categories/1", nil, "load category failed"},
		{http.MethodDelete, "/api/categories/1", nil, "delete category failed"},
		{http.MethodGet, "/api/products", nil, "failed to fetch products"},
		{http.MethodPost, "/api/products", product, "failed to create product"},
		{http.MethodPut, "/api/products/1", product, "failed to update product"},
		{http.MethodDelete, "/api/products/1", nil, "failed to delete product"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			status, env := call(t, r, tc.method, tc.path, tc.body, admin)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.Equal(t, http.StatusInternalServerError, env.Code)
			assert.Equal(t, tc.msg, env.Msg)
			assert.NotContains(t, string(env.Data), "10.0.0.7")
		})
	}
}

func TestProductErrorMapping(t *testing.T) {
	g, j := testGuard(t)
	admin, _ := j.Issue("a-1", "admin")
	product := gin.H{"name": "x", "price": 1, "stock": 1, "category_id": "c"}

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ErrMissingReference, http.StatusNotFound, "category not found"},
		{domain.ErrNotFound, http.StatusNotFound, "product not found"},
		{domain.ErrDuplicate, http.StatusConflict, "product with this name already exists"},
	}
	for _, tc := range cases {
		r := mount(NewProductHandler(fakeCatalog{err: tc.err}, g))
		status, env := call(t, r, http.MethodPut, "/api/products/1", product, admin)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.msg, env.Msg)
	}
}

func TestAuthHandler_Errors(t *testing.T) {
	r := mount(NewAuthHandler(fakeAuth{err: errBoom}, auth.NewSessionCookie("", 0, false)))

	status, env := call(t, r, http.MethodPost, "/api/auth/register", gin.H{"username": "a", "email": "a@x.com", "password": "p"}, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "register failed", env.Msg)

	status, _ = call(t, r, http.MethodPost, "/api/auth/register", gin.H{"username": "a", "email": "not-an-email", "password": "p"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, r, http.MethodPost, "/api/auth/register", gin.H{"email": "a@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "username is required; password is required", env.Msg)

	status, env = call(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "p"}, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "login failed", env.Msg)
}

func TestMeHandler(t *testing.T) {
	g, j := testGuard(t)
	tok, _ := j.Issue("u-1", "admin")

	r := mount(NewMeHandler(fakeUsers{err: domain.ErrNotFound}, g))
	status, env := call(t, r, http.MethodGet, "/api/me", nil, tok)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "user not found", env.Msg)

	// token 声称 admin，但数据库里已降级
	r = mount(NewMeHandler(fakeUsers{user: &domain.User{ID: "u-1", Role: domain.RoleCustomer}}, g))
	status, _ = call(t, r, http.MethodGet, "/api/me", nil, tok)
	assert.Equal(t, http.StatusForbidden, status)

	r = mount(NewMeHandler(fakeUsers{user: &domain.User{ID: "u-1", Role: domain.RoleAdmin, PasswordHash: "$2a$secret"}}, g))
	status, env = call(t, r, http.MethodGet, "/api/me", nil, tok)
	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "$2a$secret")
}

func TestUserHandler_Errors(t *testing.T) {
	r := mount(NewUserHandler(fakeUsers{err: errBoom}))

	status, env := call(t, r, http.MethodGet, "/api/users", nil, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "list users failed", env.Msg)

	r = mount(NewUserHandler(fakeUsers{err: domain.ErrDuplicate}))
	status, _ = call(t, r, http.MethodPost, "/api/users", gin.H{"username": "a", "email": "a@x.com", "password": "p"}, "")
	assert.Equal(t, http.StatusConflict, status)
}
