package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-api/internal/core/auth"
	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	resp "catalog-api/internal/transport/http/response"
)

const keyUser = "auth.user"

// UserLoader 按 id 读取用户；查不到返回 (nil, nil)
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Guard 的实现集合是封闭的：TokenGuard 与 RoleGuard。
// 返回 nil 即放行；errs 的 401/403 为拒绝；其它错误为服务端故障。
type Guard interface {
	Name() string
	Authorize(c *gin.Context, roles []string) error
	sealed()
}

// TokenGuard 校验 Bearer token 并把当前用户放进请求上下文
type TokenGuard struct {
	jwt   *auth.JWTer
	users UserLoader
}

func NewTokenGuard(j *auth.JWTer, users UserLoader) *TokenGuard {
	return &TokenGuard{jwt: j, users: users}
}

func (*TokenGuard) Name() string { return "token" }
func (*TokenGuard) sealed()      {}

func (g *TokenGuard) Authorize(c *gin.Context, _ []string) error {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return errs.Unauthorized("missing token")
	}
	claims, err := g.jwt.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return errs.Unauthorized("token not valid")
	}
	u, err := g.users.FindByID(c.Request.Context(), claims.UID)
	if err != nil {
		return errs.Internal("load user failed", err)
	}
	if u == nil {
		return errs.Unauthorized("token not valid")
	}
	if !u.IsActive {
		return errs.Unauthorized("user is inactive, talk with an admin")
	}
	c.Set(keyUser, u)
	return nil
}

// RoleGuard 要求当前用户至少持有 roles 之一；roles 为空时放行
type RoleGuard struct{}

func (RoleGuard) Name() string { return "role" }
func (RoleGuard) sealed()      {}

func (RoleGuard) Authorize(c *gin.Context, roles []string) error {
	if len(roles) == 0 {
		return nil
	}
	u := CurrentUser(c)
	if u == nil {
		return errs.Misconfigured("user not found in request context")
	}
	if u.HasAnyRole(roles) {
		return nil
	}
	return errs.Forbidden(fmt.Sprintf("user %s needs a valid role: [%s]", u.FullName, strings.Join(roles, ", ")))
}

// Pipeline 固定顺序：先 token 再 role
type Pipeline struct {
	guards []Guard
	log    *zap.Logger
}

func NewPipeline(token *TokenGuard, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{guards: []Guard{token, RoleGuard{}}, log: log.Named("guard")}
}

// Authorize 依次执行所有 guard，遇到第一个非 nil 即停止
func (p *Pipeline) Authorize(c *gin.Context, roles []string) error {
	for _, g := range p.guards {
		err := g.Authorize(c, roles)
		guardDecisions.WithLabelValues(g.Name(), outcome(err)).Inc()
		if err != nil {
			return err
		}
	}
	return nil
}

// Handler 生成路由中间件；roles 在注册时固定
func (p *Pipeline) Handler(roles []string) gin.HandlerFunc {
	roles = append([]string(nil), roles...)
	return func(c *gin.Context) {
		if err := p.Authorize(c, roles); err != nil {
			code := errs.CodeOf(err)
			msg := err.Error()
			if code >= 500 {
				p.log.Error("guard failure", zap.String("path", c.FullPath()), zap.Error(err))
				var e *errs.Error
				if !errors.As(err, &e) || e.Err != nil {
					msg = "internal error"
				}
			}
			resp.Abort(c, code, msg)
			return
		}
		c.Next()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "allow"
	case errs.IsUnauthorized(err), errs.IsForbidden(err):
		return "deny"
	default:
		return "error"
	}
}

// CurrentUser 返回 TokenGuard 放入上下文的用户，未经认证时为 nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(keyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
