// Package memory 提供进程内的仓储实现（db.driver=memory），
// 约束与数据库保持一致：email / 商品名唯一，商品分类外键 RESTRICT。
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/pkg/utils"
)

type Store struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	categories map[string]domain.Category
	products   map[string]domain.Product
	now        func() time.Time
	last       time.Time
}

var (
	_ domain.UserRepository     = (*UserRepo)(nil)
	_ domain.CategoryRepository = (*CategoryRepo)(nil)
	_ domain.ProductRepository  = (*ProductRepo)(nil)
)

func NewStore() *Store {
	return &Store{
		users:      map[string]domain.User{},
		categories: map[string]domain.Category{},
		products:   map[string]domain.Product{},
		now:        time.Now,
	}
}

// tick 返回严格递增的时间，保证按创建时间排序稳定；需持写锁
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func (s *Store) Users() *UserRepo          { return &UserRepo{s} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }
func (s *Store) Products() *ProductRepo    { return &ProductRepo{s} }

// ---------- users ----------

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.tick()
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) List(_ context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(f.Q))
	all := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if q != "" && !strings.Contains(strings.ToLower(u.Email), q) && !strings.Contains(strings.ToLower(u.Username), q) {
			continue
		}
		all = append(all, u)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Offset, f.Limit), int64(len(all)), nil
}

func (r *UserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	r.s.users[id] = u
	return nil
}

// ---------- categories ----------

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) List(context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Update(_ context.Context, c *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return domain.ErrStillReferenced
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ---------- products ----------

type ProductRepo struct{ s *Store }

// withCategory 需在持锁状态下调用
func (r *ProductRepo) withCategory(p domain.Product) domain.Product {
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (r *ProductRepo) List(context.Context) ([]domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, r.withCategory(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = r.withCategory(p)
	return &p, nil
}

// checkWrite 需在持写锁状态下调用
func (r *ProductRepo) checkWrite(p *domain.Product) error {
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return domain.ErrMissingReference
	}
	for _, ex := range r.s.products {
		if ex.ID != p.ID && ex.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *ProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkWrite(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	now := r.s.tick()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.Category = nil
	r.s.products[p.ID] = stored
	return nil
}

func (r *ProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkWrite(p); err != nil {
		return err
	}
	stored := *p
	stored.Category = nil
	stored.CreatedAt = old.CreatedAt
	stored.UpdatedAt = r.s.tick()
	r.s.products[p.ID] = stored
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.s.products, id)
	return &p, nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
