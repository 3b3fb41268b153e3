package dto

import (
	"time"

	"github.com/shopspring/decimal"

	appsale "github.com/xiebiao/inventory-pos/internal/application/sale"
	"github.com/xiebiao/inventory-pos/internal/domain/sale"
)

// CreateSaleRequest 下单请求
type CreateSaleRequest struct {
	CustomerName   string                  `json:"customer_name" binding:"max=100" example:"李四"`
	CustomerEmail  string                  `json:"customer_email" binding:"omitempty,email,max=200" example:"buyer@example.com"`
	CustomerNumber string                  `json:"customer_number" binding:"max=50" example:"13900000000"`
	Items          []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleItemRequest 购物车行
// price为空时按目录价成交（price_policy=catalog时必须与目录价一致）
type CreateSaleItemRequest struct {
	ProductID uint             `json:"product_id" binding:"required" example:"1"`
	Quantity  decimal.Decimal  `json:"quantity" swaggertype:"string" example:"2"`
	Price     *decimal.Decimal `json:"price" swaggertype:"string" example:"12.50"`
}

// ToCommand 转换为应用层下单请求
func (r *CreateSaleRequest) ToCommand(userID *uint) appsale.CreateSaleRequest {
	items := make([]appsale.CreateSaleItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, appsale.CreateSaleItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return appsale.CreateSaleRequest{
		UserID: userID,
		Customer: sale.Customer{
			Name:   r.CustomerName,
			Email:  r.CustomerEmail,
			Number: r.CustomerNumber,
		},
		Items: items,
	}
}

// ListSalesRequest 销售单列表请求
type ListSalesRequest struct {
	PageQuery
	RangeQuery
	UserID *uint `form:"user_id" example:"2"`
}

// Params 转换为仓储查询参数，日期按loc解释（to当天包含在内）
func (r *ListSalesRequest) Params(loc *time.Location) (sale.ListParams, error) {
	r.Normalize()
	params := sale.ListParams{
		Page:     r.Page,
		PageSize: r.PageSize,
		UserID:   r.UserID,
	}
	if r.From != "" {
		t, err := time.ParseInLocation(time.DateOnly, r.From, loc)
		if err != nil {
			return params, err
		}
		params.From = &t
	}
	if r.To != "" {
		t, err := time.ParseInLocation(time.DateOnly, r.To, loc)
		if err != nil {
			return params, err
		}
		end := t.AddDate(0, 0, 1)
		params.To = &end
	}
	return params, nil
}

// SaleItemResponse 销售明细
type SaleItemResponse struct {
	ProductID   uint            `json:"product_id" example:"1"`
	ProductName string          `json:"product_name,omitempty" example:"内六角扳手"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"12.5"`
	Subtotal    decimal.Decimal `json:"subtotal" swaggertype:"string" example:"25"`
}

// SaleResponse 销售单
type SaleResponse struct {
	ID             uint               `json:"id" example:"1"`
	SaleNo         string             `json:"sale_no" example:"S20240301120000a1b2c3"`
	UserID         *uint              `json:"user_id" example:"2"`
	Total          decimal.Decimal    `json:"total" swaggertype:"string" example:"25"`
	CustomerName   string             `json:"customer_name"`
	CustomerEmail  string             `json:"customer_email"`
	CustomerNumber string             `json:"customer_number"`
	Items          []SaleItemResponse `json:"items,omitempty"`
	CreatedAt      string             `json:"created_at" example:"2024-03-01T12:00:00Z"`
}

// NewSaleResponse 领域实体转换为HTTP响应（列表查询时Items为空）
func NewSaleResponse(s *sale.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:             s.ID,
		SaleNo:         s.SaleNo,
		UserID:         s.UserID,
		Total:          s.Total,
		CustomerName:   s.Customer.Name,
		CustomerEmail:  s.Customer.Email,
		CustomerNumber: s.Customer.Number,
		CreatedAt:      FormatTime(s.CreatedAt),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal(),
		})
	}
	return resp
}

// NewSaleList 批量转换
func NewSaleList(list []*sale.Sale) []*SaleResponse {
	out := make([]*SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, NewSaleResponse(s))
	}
	return out
}
