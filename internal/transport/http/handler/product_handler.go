package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-shop/internal/core/auth"
	"go-gin-gorm-shop/internal/domain"
	"go-gin-gorm-shop/internal/transport/http/ez"
	mdw "go-gin-gorm-shop/internal/transport/http/middleware"
)

type ProductHandler struct {
	svc   CatalogUsecase
	guard *auth.Guard
}

func NewProductHandler(svc CatalogUsecase, guard *auth.Guard) *ProductHandler {
	return &ProductHandler{svc: svc, guard: guard}
}

// 指针字段用来区分“没传”和 0
type productIn struct {
	Name        string   `json:"name"        binding:"required,max=191"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"       binding:"required,min=0"`
	Stock       *int     `json:"stock"       binding:"required,min=0"`
	ImageURL    string   `json:"image_url"   binding:"max=512"`
	CategoryID  string   `json:"category_id" binding:"required"`
}

func (in *productIn) toDomain(id string) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Stock:       *in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	}
}

type deleteProductOut struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

func productError(err error, fallback string) error {
	return ez.MapError(err, fallback,
		notFound(domain.ErrNotFound, "product not found"),
		notFound(domain.ErrMissingReference, "category not found"),
		conflict(domain.ErrDuplicate, "product with this name already exists"),
	)
}

func (h *ProductHandler) MountAPI(e ez.EZ) {
	adminOnly := []gin.HandlerFunc{mdw.RequireRole(h.guard, string(domain.RoleAdmin))}

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			list, err := h.svc.ListProducts(c.Request.Context())
			if err != nil {
				return nil, ez.Internal("failed to fetch products", err)
			}
			if list == nil {
				list = []domain.Product{}
			}
			return list, nil
		},
	})

	ez.RegisterAction(e, ez.Action[productIn, *domain.Product]{
		Method:     http.MethodPost,
		Path:       "/products",
		Binder:     ez.BindJSON,
		Status:     http.StatusCreated,
		Middleware: adminOnly,
		Handler: func(c *gin.Context, in *productIn) (*domain.Product, error) {
			p := in.toDomain("")
			if err := h.svc.CreateProduct(c.Request.Context(), p); err != nil {
				return nil, productError(err, "failed to create product")
			}
			return p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Product, error) {
			p, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, productError(err, "failed to fetch product")
			}
			return p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[productIn, *domain.Product]{
		Method:     http.MethodPut,
		Path:       "/products/:id",
		Binder:     ez.BindJSON,
		Middleware: adminOnly,
		Handler: func(c *gin.Context, in *productIn) (*domain.Product, error) {
			p, err := h.svc.UpdateProduct(c.Request.Context(), in.toDomain(c.Param("id")))
			if err != nil {
				return nil, productError(err, "failed to update product")
			}
			return p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleteProductOut]{
		Method:     http.MethodDelete,
		Path:       "/products/:id",
		Binder:     ez.BindNone,
		Middleware: adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (deleteProductOut, error) {
			p, err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id"))
			if err != nil {
				return deleteProductOut{}, productError(err, "failed to delete product")
			}
			return deleteProductOut{Message: "product deleted", Product: p}, nil
		},
	})
}
