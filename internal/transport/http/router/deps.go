package router

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog-api/internal/core/auth"
	authsvc "catalog-api/internal/feature/auth"
	"catalog-api/internal/feature/files"
	"catalog-api/internal/feature/product"
	"catalog-api/internal/feature/seed"
	"catalog-api/internal/repo"
	mdw "catalog-api/internal/transport/http/middleware"
)

// Deps 两个引擎共用的依赖，由 cmd 组装
type Deps struct {
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Users    *repo.UserRepo
	Products *product.Service
	Auth     *authsvc.Service
	Files    *files.Service
	Seed     *seed.Service // nil 表示不挂载 /seed
	CORS     []string
}

func (d Deps) pipeline() *mdw.Pipeline {
	return mdw.NewPipeline(mdw.NewTokenGuard(d.JWT, d.Users), d.Log)
}
