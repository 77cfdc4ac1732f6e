package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
	mdw "go-gin-gorm-shop/internal/transport/http/middleware"
)

type CategoryHandler struct {
	svc        CatalogUsecase
	writeGuard []gin.HandlerFunc
}

// NewCategoryHandler guardWrites 为 false 时分类写接口不鉴权（兼容既有客户端）
func NewCategoryHandler(svc CatalogUsecase, guard *auth.Guard, guardWrites bool) *CategoryHandler {
	h := &CategoryHandler{svc: svc}
	if guardWrites && guard != nil {
		h.writeGuard = []gin.HandlerFunc{mdw.RequireRole(guard, string(domain.RoleAdmin))}
	}
	return h
}

type categoryIn struct {
	Name        string `json:"name"        binding:"required,max=128"`
	Description string `json:"description"`
}

var errCategoryNotFound = notFound(domain.ErrNotFound, "category not found")

func (h *CategoryHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			list, err := h.svc.ListCategories(c.Request.Context())
			if err != nil {
				return nil, ez.Internal("list categories failed", err)
			}
			if list == nil {
				list = []domain.Category{}
			}
			return list, nil
		},
	})

	ez.RegisterAction(e, ez.Action[categoryIn, *domain.Category]{
		Method:     http.MethodPost,
		Path:       "/categories",
		Binder:     ez.BindJSON,
		Status:     http.StatusCreated,
		Middleware: h.writeGuard,
		Handler: func(c *gin.Context, in *categoryIn) (*domain.Category, error) {
			cat := &domain.Category{Name: in.Name, Description: in.Description}
			if err := h.svc.CreateCategory(c.Request.Context(), cat); err != nil {
				return nil, ez.Internal("create category failed", err)
			}
			return cat, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Category, error) {
			cat, err := h.svc.GetCategory(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, ez.MapError(err, "load category failed", errCategoryNotFound)
			}
			return cat, nil
		},
	})

	ez.RegisterAction(e, ez.Action[categoryIn, *domain.Category]{
		Method:     http.MethodPut,
		Path:       "/categories/:id",
		Binder:     ez.BindJSON,
		Middleware: h.writeGuard,
		Handler: func(c *gin.Context, in *categoryIn) (*domain.Category, error) {
			cat := &domain.Category{ID: c.Param("id"), Name: in.Name, Description: in.Description}
			if err := h.svc.UpdateCategory(c.Request.Context(), cat); err != nil {
				return nil, ez.MapError(err, "update category failed", errCategoryNotFound)
			}
			return cat, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method:     http.MethodDelete,
		Path:       "/categories/:id",
		Binder:     ez.BindNone,
		Middleware: h.writeGuard,
		Handler: func(c *gin.Context, _ *struct{}) (message, error) {
			if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
				return message{}, ez.MapError(err, "delete category failed",
					errCategoryNotFound,
					conflict(domain.ErrStillReferenced, "category is still used by products"),
				)
			}
			return message{Message: "category deleted"}, nil
		},
	})
}
