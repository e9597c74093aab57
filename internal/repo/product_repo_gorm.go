package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"catalog-api/internal/domain"
)

// ProductRepo 可绑定普通连接，也可绑定事务（见 Transaction）
type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func orderedImages(db *gorm.DB) *gorm.DB { return db.Order("product_images.id ASC") }

// Transaction 在同一事务里执行 fn：返回 nil 提交，返回 error 或 panic 回滚，连接总会归还
func (r *ProductRepo) Transaction(ctx context.Context, fn func(tx *ProductRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepo{db: tx})
	})
}

// Create 商品与图片在同一事务里写入（连接已关闭默认事务）
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("User").Create(p).Error
	})
}

// Save 全量保存商品以及 p.Images 中的新图片，不触碰 users 表
func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit("User").Save(p).Error
}

// FindByID 查不到返回 (nil, nil)
func (r *ProductRepo) FindByID(ctx context.Context, id string, withRelations bool) (*domain.Product, error) {
	q := r.db.WithContext(ctx)
	if withRelations {
		q = q.Preload("Images", orderedImages).Preload("User")
	}
	var p domain.Product
	err := q.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &p, nil
}

// FindByTitleOrSlug 标题不区分大小写匹配，或 slug 精确匹配（term 先转小写）
func (r *ProductRepo) FindByTitleOrSlug(ctx context.Context, term string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Preload("User").
		Where("UPPER(title) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term)).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by term %q: %w", term, err)
	}
	return &p, nil
}

// List 按创建时间稳定排序，保证分页结果可预期
func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	var ps []domain.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ps, nil
}

func (r *ProductRepo) DeleteImages(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.ProductImage{}).Error
}

// Delete 返回受影响行数
func (r *ProductRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	return res.RowsAffected, res.Error
}

func (r *ProductRepo) DeleteAll(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("1 = 1").Delete(&domain.ProductImage{}).Error; err != nil {
		return fmt.Errorf("delete product images: %w", err)
	}
	if err := db.Where("1 = 1").Delete(&domain.Product{}).Error; err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}
