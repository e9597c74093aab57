// Package app 组装两个进程共用的依赖。
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"catalog-api/internal/core/auth"
	"catalog-api/internal/core/cache"
	"catalog-api/internal/core/config"
	"catalog-api/internal/core/database"
	"catalog-api/internal/domain"
	authsvc "catalog-api/internal/feature/auth"
	"catalog-api/internal/feature/files"
	"catalog-api/internal/feature/product"
	"catalog-api/internal/feature/seed"
	"catalog-api/internal/repo"
	"catalog-api/internal/transport/http/router"
	"catalog-api/pkg/rabbitmq"
)

// Wire 打开数据库与可选的 redis / rabbitmq，返回路由依赖和统一的关闭函数
func Wire(ctx context.Context, cfg *config.Config, log *zap.Logger) (router.Deps, func(), error) {
	var closers []func() error
	cleanup := func() {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		if err := errors.Join(errs...); err != nil {
			log.Warn("shutdown cleanup", zap.Error(err))
		}
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, log)
	if err != nil {
		return router.Deps{}, cleanup, fmt.Errorf("db open: %w", err)
	}
	closers = append(closers, func() error { return database.Close(db) })
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(domain.Models()...); err != nil {
			return router.Deps{}, cleanup, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var opts []product.Option
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unavailable, product cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			closers = append(closers, c.Close)
			opts = append(opts, product.WithCache(c, time.Duration(cfg.Redis.TTLSeconds)*time.Second))
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}
	if cfg.AMQP.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.AMQP.URL, Exchange: cfg.AMQP.Exchange})
		if err != nil {
			log.Warn("rabbitmq unavailable, product events disabled", zap.Error(err))
		} else {
			closers = append(closers, mq.Close)
			opts = append(opts, product.WithEvents(mq))
			log.Info("rabbitmq connected", zap.String("exchange", cfg.AMQP.Exchange))
		}
	}

	fs, err := files.NewService(cfg.Files.Dir, cfg.App.HostAPI, cfg.Files.MaxUploadMB, log)
	if err != nil {
		return router.Deps{}, cleanup, err
	}

	users := repo.NewUserRepo(db)
	products := product.NewService(repo.NewProductRepo(db), log, opts...)
	d := router.Deps{
		Log:      log,
		DB:       db,
		JWT:      jwter,
		Users:    users,
		Products: products,
		Auth:     authsvc.NewService(users, jwter, log),
		Files:    fs,
		CORS:     cfg.CORS.AllowOrigins,
	}
	if cfg.Seed.Enabled && !cfg.IsProd() {
		d.Seed = seed.NewService(products, users, log)
	}
	return d, cleanup, nil
}
