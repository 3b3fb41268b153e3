package dto

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

// CreateProductRequest 创建商品请求
// 数量、价格使用decimal，JSON中可传数字或字符串
type CreateProductRequest struct {
	Name            string          `json:"name" binding:"required,max=200" example:"内六角扳手"`
	Description     string          `json:"description" binding:"max=2000"`
	PartNumber      string          `json:"part_number" binding:"required,max=100" example:"HX-0042"`
	Type            string          `json:"type" binding:"required,oneof=accessories merchandise workshop" example:"accessories"`
	Location        string          `json:"location" binding:"required,oneof=warehouse store" example:"warehouse"`
	Value           decimal.Decimal `json:"value" swaggertype:"string" example:"12.50"`
	MinQuantity     decimal.Decimal `json:"min_quantity" swaggertype:"string" example:"5"`
	MaxQuantity     decimal.Decimal `json:"max_quantity" swaggertype:"string" example:"100"` // 0表示不设上限
	StorageSiteID   *uint           `json:"storage_site_id" example:"1"`
	OpeningQuantity decimal.Decimal `json:"opening_quantity" swaggertype:"string" example:"20"` // 期初库存，写入一条IN流水
}

// UpdateProductRequest 修改商品请求（未传的字段不修改，不能修改库存数量）
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	PartNumber    *string          `json:"part_number" binding:"omitempty,max=100"`
	Type          *string          `json:"type" binding:"omitempty,oneof=accessories merchandise workshop"`
	Location      *string          `json:"location" binding:"omitempty,oneof=warehouse store"`
	Value         *decimal.Decimal `json:"value" swaggertype:"string"`
	MinQuantity   *decimal.Decimal `json:"min_quantity" swaggertype:"string"`
	MaxQuantity   *decimal.Decimal `json:"max_quantity" swaggertype:"string"`
	StorageSiteID *uint            `json:"storage_site_id"`
}

// Changes 转换为领域层修改集
func (r *UpdateProductRequest) Changes() product.Changes {
	c := product.Changes{
		Name:          r.Name,
		Description:   r.Description,
		PartNumber:    r.PartNumber,
		Value:         r.Value,
		MinQuantity:   r.MinQuantity,
		MaxQuantity:   r.MaxQuantity,
		StorageSiteID: r.StorageSiteID,
	}
	if r.Type != nil {
		t := product.Type(*r.Type)
		c.Type = &t
	}
	if r.Location != nil {
		l := product.Location(*r.Location)
		c.Location = &l
	}
	return c
}

// ListProductsRequest 商品列表请求
type ListProductsRequest struct {
	PageQuery
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"扳手"`
	Type     string `form:"type" binding:"omitempty,oneof=accessories merchandise workshop"`
	Location string `form:"location" binding:"omitempty,oneof=warehouse store"`
}

// ProductResponse 商品响应
type ProductResponse struct {
	ID            uint            `json:"id" example:"1"`
	Name          string          `json:"name" example:"内六角扳手"`
	Description   string          `json:"description"`
	PartNumber    string          `json:"part_number" example:"HX-0042"`
	Type          string          `json:"type" example:"accessories"`
	Location      string          `json:"location" example:"warehouse"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string" example:"20"`
	Value         decimal.Decimal `json:"value" swaggertype:"string" example:"12.5"`
	MinQuantity   decimal.Decimal `json:"min_quantity" swaggertype:"string" example:"5"`
	MaxQuantity   decimal.Decimal `json:"max_quantity" swaggertype:"string" example:"100"`
	StorageSiteID *uint           `json:"storage_site_id" example:"1"`
	LowStock      bool            `json:"low_stock"`
	Overstock     bool            `json:"overstock"`
	CreatedAt     string          `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt     string          `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// NewProductResponse 领域实体转换为HTTP响应
func NewProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PartNumber:    p.PartNumber,
		Type:          string(p.Type),
		Location:      string(p.Location),
		Quantity:      p.Quantity,
		Value:         p.Value,
		MinQuantity:   p.MinQuantity,
		MaxQuantity:   p.MaxQuantity,
		StorageSiteID: p.StorageSiteID,
		LowStock:      p.IsLowStock(),
		Overstock:     p.IsOverstock(),
		CreatedAt:     FormatTime(p.CreatedAt),
		UpdatedAt:     FormatTime(p.UpdatedAt),
	}
}

// NewProductList 批量转换
func NewProductList(list []*product.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewProductResponse(p))
	}
	return out
}
