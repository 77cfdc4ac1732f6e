package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-gorm-shop/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	res := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", c.ID).
		Select("name", "description").
		Updates(map[string]any{"name": c.Name, "description": c.Description})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// mysql 默认按"实际改变的行"计数，值未变时也是 0
		return exists(ctx, r.db, &domain.Category{}, c.ID)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	if res.Error != nil {
		return translateDelete(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
