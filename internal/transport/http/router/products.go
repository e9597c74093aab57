package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	"catalog-api/internal/feature/product"
	"catalog-api/internal/transport/http/ez"
	mdw "catalog-api/internal/transport/http/middleware"
	"catalog-api/pkg/utils"
)

type productModule struct{ svc *product.Service }

func (productModule) Priority() int { return 20 }

// uuidParam 路径参数必须是 uuid，否则 400
func uuidParam(c *gin.Context, name string) (string, error) {
	id := c.Param(name)
	if !utils.IsUUID(id) {
		return "", errs.BadRequest("validation failed (uuid is expected)")
	}
	return id, nil
}

func (m productModule) MountAPI(e ez.EZ) {
	g := e.Group("/products")

	ez.RegisterAction(g, ez.Action[domain.Pagination, []*domain.ProductView]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *domain.Pagination) ([]*domain.ProductView, error) {
			return m.svc.FindAll(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, *domain.ProductView]{
		Method: http.MethodGet,
		Path:   "/:term",
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.ProductView, error) {
			return m.svc.FindOnePlain(c.Request.Context(), c.Param("term"))
		},
	})

	ez.RegisterAction(g, ez.Action[product.CreateProductInput, *domain.ProductView]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Access: ez.Auth(),
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *gorm.DB, in *product.CreateProductInput) (*domain.ProductView, error) {
			return m.svc.Create(c.Request.Context(), *in, mdw.CurrentUser(c))
		},
	})

	ez.RegisterAction(g, ez.Action[product.UpdateProductInput, *domain.ProductView]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Access: ez.Auth(domain.RoleAdmin),
		Handler: func(c *gin.Context, _ *gorm.DB, in *product.UpdateProductInput) (*domain.ProductView, error) {
			id, err := uuidParam(c, "id")
			if err != nil {
				return nil, err
			}
			return m.svc.Update(c.Request.Context(), id, *in, mdw.CurrentUser(c))
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Access: ez.Auth(domain.RoleAdmin),
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			id, err := uuidParam(c, "id")
			if err != nil {
				return nil, err
			}
			if err := m.svc.Remove(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
