package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catalog-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID 查不到返回 (nil, nil)
func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// List 按 email / fullName 模糊搜索
func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// SetRoles 返回受影响行数，0 表示用户不存在
func (r *UserRepo) SetRoles(ctx context.Context, id string, roles []string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{ID: id}).
		Update("roles", datatypes.JSONSlice[string](roles))
	return res.RowsAffected, res.Error
}

func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{ID: id}).Update("is_active", active)
	return res.RowsAffected, res.Error
}

// UpsertByEmail 按邮箱写入：已存在的用户保留 id 与创建时间，其余字段覆盖；不存在则新建。
// 全部在一个事务里完成，结束后 users 中的 ID 均为库里的值
func (r *UserRepo) UpsertByEmail(ctx context.Context, users []*domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			var cur domain.User
			err := tx.First(&cur, "email = ?", domain.NormalizeEmail(u.Email)).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(u).Error; err != nil {
					return fmt.Errorf("create user %s: %w", u.Email, err)
				}
			case err != nil:
				return fmt.Errorf("find user %s: %w", u.Email, err)
			default:
				u.ID, u.CreatedAt = cur.ID, cur.CreatedAt
				if err := tx.Save(u).Error; err != nil {
					return fmt.Errorf("update user %s: %w", u.Email, err)
				}
			}
		}
		return nil
	})
}
