package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	"catalog-api/internal/feature/seed"
	"catalog-api/internal/repo"
	"catalog-api/internal/transport/http/ez"
)

var adminOnly = ez.Auth(domain.RoleAdmin, domain.RoleSuperUser)

// userAdminModule 管理端用户接口：列表 / 改角色 / 封禁 / 解封
type userAdminModule struct{}

type listUsersQ struct {
	Offset int    `form:"offset,default=0"  binding:"min=0"`
	Limit  int    `form:"limit,default=20"  binding:"min=1,max=100"`
	Q      string `form:"q"` // 按 email/fullName 模糊搜
}

type adminUserRow struct {
	domain.UserSummary
	Roles []string `json:"roles"`
}

type listUsersOut struct {
	Total int64          `json:"total"`
	Items []adminUserRow `json:"items"`
}

type setRolesIn struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,oneof=user admin super-user"`
}

func (userAdminModule) MountAdmin(e ez.EZ) {
	// --- GET /admin/v1/users  用户列表 ---
	ez.RegisterAction(e, ez.Action[listUsersQ, listUsersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Access: adminOnly,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listUsersQ) (listUsersOut, error) {
			us, total, err := repo.NewUserRepo(tx).List(c.Request.Context(), in.Q, in.Offset, in.Limit)
			if err != nil {
				return listUsersOut{}, errs.Internal("list users failed", err)
			}
			out := listUsersOut{Total: total, Items: make([]adminUserRow, 0, len(us))}
			for i := range us {
				out.Items = append(out.Items, adminUserRow{UserSummary: us[i].Summary(), Roles: us[i].Roles})
			}
			return out, nil
		},
	})

	// --- PATCH /admin/v1/users/:id/roles  覆盖角色 ---
	ez.RegisterAction(e, ez.Action[setRolesIn, gin.H]{
		Method: http.MethodPatch,
		Path:   "/users/:id/roles",
		Binder: ez.BindJSON,
		Access: adminOnly,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *setRolesIn) (gin.H, error) {
			id := c.Param("id")
			n, err := repo.NewUserRepo(tx).SetRoles(c.Request.Context(), id, in.Roles)
			if err := affected(n, err, "update roles failed"); err != nil {
				return nil, err
			}
			return gin.H{"id": id, "roles": in.Roles}, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban | unban ---
	for path, active := range map[string]bool{"/users/:id/ban": false, "/users/:id/unban": true} {
		ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
			Method: http.MethodPost,
			Path:   path,
			Access: adminOnly,
			UseTx:  true,
			Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
				id := c.Param("id")
				n, err := repo.NewUserRepo(tx).SetActive(c.Request.Context(), id, active)
				if err := affected(n, err, "update user failed"); err != nil {
					return nil, err
				}
				return gin.H{"id": id, "isActive": active}, nil
			},
		})
	}
}

func affected(n int64, err error, msg string) error {
	if err != nil {
		return errs.Internal(msg, err)
	}
	if n == 0 {
		return errs.NotFound("user not found")
	}
	return nil
}

// seedModule 只在 seed.enabled 时注册
type seedModule struct{ svc *seed.Service }

func (seedModule) Priority() int { return 200 }

func (m seedModule) MountAdmin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, string]{
		Method: http.MethodGet,
		Path:   "/seed",
		Access: adminOnly,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (string, error) {
			// 种子数据与请求超时解耦，跑完为止
			return m.svc.Run(context.WithoutCancel(c.Request.Context()))
		},
	})
}
