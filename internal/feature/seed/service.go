// Package seed 重置数据库为固定的演示数据，仅用于非生产环境。
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-api/internal/domain"
	"catalog-api/internal/feature/product"
	"catalog-api/internal/repo"
	"catalog-api/pkg/utils"
)

const Done = "SEED EXECUTED"

type Service struct {
	products *product.Service
	users    *repo.UserRepo
	log      *zap.Logger
}

func NewService(products *product.Service, users *repo.UserRepo, log *zap.Logger) *Service {
	return &Service{products: products, users: users, log: log.Named("seed")}
}

// Run 清空全部商品，按邮箱重置固定用户（其它用户不动，调用者的 token 仍然有效），
// 再以第一个固定用户为归属人插入固定商品
func (s *Service) Run(ctx context.Context) (string, error) {
	if err := s.products.DeleteAll(ctx); err != nil {
		return "", err
	}

	us := make([]*domain.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		us = append(us, &domain.User{
			Email:    su.Email,
			FullName: su.FullName,
			Password: utils.HashPassword(su.Password),
			Roles:    su.Roles,
			IsActive: true,
		})
	}
	if err := s.users.UpsertByEmail(ctx, us); err != nil {
		return "", fmt.Errorf("reset seed users: %w", err)
	}
	owner := us[0]

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, in := range seedProducts {
		g.Go(func() error {
			_, err := s.products.Create(gctx, in, owner)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	s.log.Info("seed executed", zap.Int("users", len(us)), zap.Int("products", len(seedProducts)))
	return Done, nil
}
