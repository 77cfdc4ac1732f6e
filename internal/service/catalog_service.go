package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"go-gin-gorm-shop/internal/core/cache"
	"go-gin-gorm-shop/internal/domain"
)

const (
	keyCategories = "catalog:categories"
	keyProducts   = "catalog:products"
	prefixProduct = "catalog:product:"
)

func keyCategory(id string) string { return "catalog:category:" + id }
func keyProduct(id string) string  { return prefixProduct + id }

type CatalogService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	cache      *cache.Cache // 可为 nil
	ttl        time.Duration
	log        *zap.Logger
}

func NewCatalogService(categories domain.CategoryRepository, products domain.ProductRepository, c *cache.Cache, ttl time.Duration, log *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{categories: categories, products: products, cache: c, ttl: ttl, log: log}
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// ---------- categories ----------

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyCategories, s.ttl, s.categories.List)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyCategory(id), s.ttl, func(ctx context.Context) (*domain.Category, error) {
		return s.categories.FindByID(ctx, id)
	})
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.categories.Create(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, keyCategories)
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	if err := s.categories.Update(ctx, c); err != nil {
		return err
	}
	// 商品（列表和单条）里内嵌了分类信息，一并失效
	s.invalidate(ctx, keyCategories, keyCategory(c.ID), keyProducts)
	if err := s.cache.DeletePrefix(ctx, prefixProduct); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("prefix", prefixProduct), zap.Error(err))
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyCategories, keyCategory(id))
	return nil
}

// ---------- products ----------

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyProducts, s.ttl, s.products.List)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyProduct(id), s.ttl, func(ctx context.Context) (*domain.Product, error) {
		return s.products.FindByID(ctx, id)
	})
}

// ensureCategory 写商品前确认分类存在；不存在统一返回 domain.ErrMissingReference
func (s *CatalogService) ensureCategory(ctx context.Context, id string) error {
	_, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrMissingReference
	}
	return err
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.ensureCategory(ctx, p.CategoryID); err != nil {
		return err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, keyProducts)
	return nil
}

// UpdateProduct 成功后返回重新读取的商品（含分类）
func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := s.ensureCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyProducts, keyProduct(p.ID))
	return s.products.FindByID(ctx, p.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, keyProducts, keyProduct(id))
	return p, nil
}
