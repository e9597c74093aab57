package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var Genders = []string{"men", "women", "kid", "unisex"}

type Product struct {
	ID          string                      `gorm:"primaryKey;size:36" json:"id"`
	Title       string                      `gorm:"uniqueIndex;size:191;not null" json:"title"`
	Price       float64                     `gorm:"not null;default:0" json:"price"`
	Description *string                     `gorm:"type:text" json:"description"`
	Slug        string                      `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Stock       int                         `gorm:"not null;default:0" json:"stock"`
	Sizes       datatypes.JSONSlice[string] `gorm:"not null" json:"sizes"`
	Gender      string                      `gorm:"size:16;not null" json:"gender"`
	Tags        datatypes.JSONSlice[string] `gorm:"not null" json:"tags"`
	Images      []ProductImage              `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	UserID      string                      `gorm:"size:36;index" json:"-"`
	User        *User                       `json:"user,omitempty"`
	CreatedAt   time.Time                   `json:"-"`
	UpdatedAt   time.Time                   `json:"-"`
}

func (Product) TableName() string { return "products" }

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	URL       string `gorm:"type:text;not null" json:"url"`
	ProductID string `gorm:"size:36;index;not null" json:"-"`
}

func (ProductImage) TableName() string { return "product_images" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave 每次插入 / 更新都重新规范化 slug；slug 为空时由标题推导
func (p *Product) BeforeSave(*gorm.DB) error {
	src := p.Slug
	if strings.TrimSpace(src) == "" {
		src = p.Title
	}
	p.Slug = NormalizeSlug(src)
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

var slugReplacer = strings.NewReplacer(" ", "_", "'", "")

// NormalizeSlug: lower-case, spaces to underscores, apostrophes dropped.
func NormalizeSlug(s string) string {
	return slugReplacer.Replace(strings.ToLower(s))
}

// ImageURLs 扁平化图片：只保留 url，顺序不变
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

func NewImages(urls []string) []ProductImage {
	imgs := make([]ProductImage, 0, len(urls))
	for _, u := range urls {
		imgs = append(imgs, ProductImage{URL: u})
	}
	return imgs
}

// ProductView 是对外的扁平表示
type ProductView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Price       float64      `json:"price"`
	Description *string      `json:"description"`
	Slug        string       `json:"slug"`
	Stock       int          `json:"stock"`
	Sizes       []string     `json:"sizes"`
	Gender      string       `json:"gender"`
	Tags        []string     `json:"tags"`
	Images      []string     `json:"images"`
	User        *UserSummary `json:"user,omitempty"`
}

func (p *Product) View() *ProductView {
	v := &ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       append([]string{}, p.Sizes...),
		Gender:      p.Gender,
		Tags:        append([]string{}, p.Tags...),
		Images:      p.ImageURLs(),
	}
	if p.User != nil {
		s := p.User.Summary()
		v.User = &s
	}
	return v
}

// Models 需要迁移的全部表
func Models() []any {
	return []any{&User{}, &Product{}, &ProductImage{}}
}
