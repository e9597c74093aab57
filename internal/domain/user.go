package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleSuperUser = "super-user"
)

type User struct {
	ID        string                     `gorm:"primaryKey;size:36" json:"id"`
	Email     string                     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password  string                     `gorm:"size:100;not null" json:"-"`
	FullName  string                     `gorm:"size:128;not null" json:"fullName"`
	Roles     datatypes.JSONSlice[string] `gorm:"not null" json:"roles"`
	IsActive  bool                       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave 统一邮箱格式并保证至少一个角色
func (u *User) BeforeSave(*gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if len(u.Roles) == 0 {
		u.Roles = datatypes.JSONSlice[string]{RoleUser}
	}
	return nil
}

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// HasAnyRole 任一命中即可（OR）
func (u *User) HasAnyRole(roles []string) bool {
	for _, r := range u.Roles {
		if slices.Contains(roles, r) {
			return true
		}
	}
	return false
}

// UserSummary 对外返回的用户信息（不含角色与密码）
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	IsActive bool   `json:"isActive"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}
