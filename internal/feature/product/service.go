package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"catalog-api/internal/core/cache"
	"catalog-api/internal/core/database"
	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	"catalog-api/internal/repo"
	"catalog-api/pkg/utils"
)

const (
	EventCreated = "product.created"
	EventUpdated = "product.updated"
	EventDeleted = "product.deleted"

	cachePrefix = "product:"
)

// Publisher 发送商品事件；rabbitmq.Client 实现了它
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type Event struct {
	Type    string              `json:"type"`
	ID      string              `json:"id"`
	ActorID string              `json:"actorId,omitempty"`
	Product *domain.ProductView `json:"product,omitempty"`
	At      time.Time           `json:"at"`
}

type Service struct {
	repo     *repo.ProductRepo
	cache    *cache.Cache
	cacheTTL time.Duration
	events   Publisher
	log      *zap.Logger
}

type Option func(*Service)

func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *Service) { s.cache, s.cacheTTL = c, ttl }
}

func WithEvents(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

func NewService(r *repo.ProductRepo, log *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: r, log: log.Named("products"), cacheTTL: time.Minute}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, in CreateProductInput, actor *domain.User) (*domain.ProductView, error) {
	if actor == nil {
		return nil, errs.Misconfigured("acting user missing")
	}
	p := in.toProduct()
	p.UserID = actor.ID
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.handleErr(err)
	}
	p.User = actor
	v := p.View()
	s.publish(EventCreated, p.ID, actor.ID, v)
	return v, nil
}

func (s *Service) FindAll(ctx context.Context, pg domain.Pagination) ([]*domain.ProductView, error) {
	pg = pg.Normalize()
	ps, err := s.repo.List(ctx, pg.Offset, pg.Limit)
	if err != nil {
		return nil, s.handleErr(err)
	}
	out := make([]*domain.ProductView, 0, len(ps))
	for i := range ps {
		out = append(out, ps[i].View())
	}
	return out, nil
}

// FindOne: uuid 按主键查，否则按标题（不区分大小写）或 slug 查
func (s *Service) FindOne(ctx context.Context, term string) (*domain.Product, error) {
	var (
		p   *domain.Product
		err error
	)
	if utils.IsUUID(term) {
		p, err = s.repo.FindByID(ctx, term, true)
	} else {
		p, err = s.repo.FindByTitleOrSlug(ctx, term)
	}
	if err != nil {
		return nil, s.handleErr(err)
	}
	if p == nil {
		return nil, errs.NotFound(fmt.Sprintf("product with term %q not found", term))
	}
	return p, nil
}

// FindOnePlain 图片扁平化为 url 列表；按 id 查询时走缓存
func (s *Service) FindOnePlain(ctx context.Context, term string) (*domain.ProductView, error) {
	load := func(ctx context.Context) (*domain.ProductView, error) {
		p, err := s.FindOne(ctx, term)
		if err != nil {
			return nil, err
		}
		return p.View(), nil
	}
	if !utils.IsUUID(term) {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, cachePrefix+term, s.cacheTTL, load)
}

// Update 合并变更并在一个事务里替换图片、改写归属人、保存商品。
// 任一步失败整体回滚，调用方看不到部分写入。
func (s *Service) Update(ctx context.Context, id string, in UpdateProductInput, actor *domain.User) (*domain.ProductView, error) {
	if actor == nil {
		return nil, errs.Misconfigured("acting user missing")
	}
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, s.handleErr(err)
	}
	if p == nil {
		return nil, errs.NotFound(fmt.Sprintf("product with id %q not found", id))
	}
	in.applyTo(p)

	err = s.repo.Transaction(ctx, func(tx *repo.ProductRepo) error {
		if in.Images != nil {
			if err := tx.DeleteImages(ctx, id); err != nil {
				return fmt.Errorf("delete images of %s: %w", id, err)
			}
			p.Images = domain.NewImages(*in.Images)
		}
		p.UserID = actor.ID
		return tx.Save(ctx, p)
	})
	if err != nil {
		return nil, s.handleErr(err)
	}

	s.invalidate(ctx, id)
	v, err := s.FindOnePlain(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(EventUpdated, id, actor.ID, v)
	return v, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	err := s.repo.Transaction(ctx, func(tx *repo.ProductRepo) error {
		if err := tx.DeleteImages(ctx, id); err != nil {
			return err
		}
		n, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.NotFound(fmt.Sprintf("product with id %q not found", id))
		}
		return nil
	})
	if err != nil {
		return s.handleErr(err)
	}
	s.invalidate(ctx, id)
	s.publish(EventDeleted, id, "", nil)
	return nil
}

// DeleteAll 仅供种子数据使用
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return s.handleErr(err)
	}
	if err := s.cache.InvalidatePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("cache reset failed", zap.Error(err))
	}
	return nil
}

// handleErr: 唯一冲突 → 400（带驱动详情）；其它未知错误记日志后对外隐藏细节
func (s *Service) handleErr(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	if detail, ok := database.UniqueViolation(err); ok {
		return errs.Conflict(detail, err)
	}
	s.log.Error("product store failure", zap.Error(err))
	return errs.Internal("unexpected error, check server logs", err)
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, cachePrefix+id); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}

func (s *Service) publish(typ, id, actorID string, v *domain.ProductView) {
	if s.events == nil {
		return
	}
	ev := Event{Type: typ, ID: id, ActorID: actorID, Product: v, At: time.Now().UTC()}
	if err := s.events.Publish(typ, ev); err != nil {
		s.log.Warn("publish event failed", zap.String("type", typ), zap.String("id", id), zap.Error(err))
	}
}
