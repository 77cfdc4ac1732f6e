package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"go-gin-gorm-shop/internal/core/database"
	"go-gin-gorm-shop/internal/domain"
)

// translate 把 gorm / 驱动错误收敛为 domain 错误，其它错误原样透传
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return domain.ErrNotFound
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrMissingReference, err)
	}
	return err
}

// translateDelete 删除时外键冲突表示仍被引用
func translateDelete(err error) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrStillReferenced, err)
	}
	return translate(err)
}

// exists 在 UPDATE 影响 0 行时区分"不存在"和"值未变化"
func exists(ctx context.Context, db *gorm.DB, model any, id string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var (
	_ domain.UserRepository     = (*UserRepo)(nil)
	_ domain.CategoryRepository = (*CategoryRepo)(nil)
	_ domain.ProductRepository  = (*ProductRepo)(nil)
)
