package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog-api/internal/domain"
	authsvc "catalog-api/internal/feature/auth"
	"catalog-api/internal/transport/http/ez"
	mdw "catalog-api/internal/transport/http/middleware"
)

type authModule struct{ svc *authsvc.Service }

func (authModule) Priority() int { return 10 }

func (m authModule) MountAPI(e ez.EZ) {
	g := e.Group("/auth")

	ez.RegisterAction(g, ez.Action[authsvc.RegisterInput, *authsvc.Result]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *gorm.DB, in *authsvc.RegisterInput) (*authsvc.Result, error) {
			return m.svc.Register(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(g, ez.Action[authsvc.LoginInput, *authsvc.Result]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *authsvc.LoginInput) (*authsvc.Result, error) {
			return m.svc.Login(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, *authsvc.Result]{
		Method: http.MethodGet,
		Path:   "/check-status",
		Access: ez.Auth(),
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*authsvc.Result, error) {
			return m.svc.CheckStatus(mdw.CurrentUser(c))
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/private",
		Access: ez.Auth(),
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			return gin.H{"user": mdw.CurrentUser(c), "headers": c.Request.Header}, nil
		},
	})

	for _, path := range []string{"/private2", "/private3"} {
		ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
			Method: http.MethodGet,
			Path:   path,
			Access: ez.Auth(domain.RoleSuperUser, domain.RoleAdmin),
			Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
				return gin.H{"user": mdw.CurrentUser(c)}, nil
			},
		})
	}
}
