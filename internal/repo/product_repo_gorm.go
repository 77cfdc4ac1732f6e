package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gin-gorm-shop/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) withCategory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category")
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	err := r.withCategory(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.withCategory(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	// 不级联写入 Category
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

// Update 全量覆盖可编辑字段；零值（stock=0 等）也要写入
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", p.ID).
		Select("name", "description", "price", "stock", "image_url", "category_id", "updated_at").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return exists(ctx, r.db, &domain.Product{}, p.ID)
	}
	return nil
}

// Delete 返回被删除的完整行；postgres 用 RETURNING，其余驱动先查后删
func (r *ProductRepo) Delete(ctx context.Context, id string) (*domain.Product, error) {
	if r.db.Dialector.Name() == "postgres" {
		var p domain.Product
		res := r.db.WithContext(ctx).Clauses(clause.Returning{}).Where("id = ?", id).Delete(&p)
		if res.Error != nil {
			return nil, translateDelete(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrNotFound
		}
		return &p, nil
	}

	var out *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		res := tx.Where("id = ?", id).Delete(&domain.Product{})
		if res.Error != nil {
			return translateDelete(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
