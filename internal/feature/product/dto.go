package product

import (
	"gorm.io/datatypes"

	"catalog-api/internal/domain"
)

type CreateProductInput struct {
	Title       string   `json:"title"       binding:"required,min=1"`
	Price       *float64 `json:"price"       binding:"omitempty,gte=0"`
	Description *string  `json:"description" binding:"omitempty,min=1"`
	Slug        *string  `json:"slug"        binding:"omitempty,min=1"`
	Stock       *int     `json:"stock"       binding:"omitempty,gte=0"`
	Sizes       []string `json:"sizes"       binding:"required,min=1,dive,min=1"`
	Gender      string   `json:"gender"      binding:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags"        binding:"omitempty,dive,min=1"`
	Images      []string `json:"images"      binding:"omitempty,dive,min=1"`
}

func (in CreateProductInput) toProduct() *domain.Product {
	p := &domain.Product{
		Title:       in.Title,
		Description: in.Description,
		Sizes:       datatypes.JSONSlice[string](in.Sizes),
		Gender:      in.Gender,
		Tags:        datatypes.JSONSlice[string](in.Tags),
		Images:      domain.NewImages(in.Images),
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p
}

// UpdateProductInput 全部可选；nil 表示不修改。Images 非 nil 时整体替换（空数组即清空）
type UpdateProductInput struct {
	Title       *string   `json:"title"       binding:"omitempty,min=1"`
	Price       *float64  `json:"price"       binding:"omitempty,gte=0"`
	Description *string   `json:"description" binding:"omitempty,min=1"`
	Slug        *string   `json:"slug"        binding:"omitempty,min=1"`
	Stock       *int      `json:"stock"       binding:"omitempty,gte=0"`
	Sizes       *[]string `json:"sizes"       binding:"omitempty,min=1,dive,min=1"`
	Gender      *string   `json:"gender"      binding:"omitempty,oneof=men women kid unisex"`
	Tags        *[]string `json:"tags"        binding:"omitempty,dive,min=1"`
	Images      *[]string `json:"images"      binding:"omitempty,dive,min=1"`
}

// applyTo 合并除图片外的字段。未提供 slug 时保留原值，BeforeSave 只重新规范化
func (in UpdateProductInput) applyTo(p *domain.Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = datatypes.JSONSlice[string](*in.Sizes)
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Tags != nil {
		p.Tags = datatypes.JSONSlice[string](*in.Tags)
	}
}
