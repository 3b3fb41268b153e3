package dto

import (
	appsite "github.com/xiebiao/inventory-pos/internal/application/site"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
)

// SiteFields 存储点可编辑字段（未传的字段不修改）
type SiteFields struct {
	Address      *string `json:"address" binding:"omitempty,max=500" example:"上海市浦东新区XX路1号"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100" example:"张三"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50" example:"13800000000"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200" example:"warehouse@example.com"`
	Capacity     *int    `json:"capacity" binding:"omitempty,min=0" example:"1000"`
	IsActive     *bool   `json:"is_active" example:"true"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}

// CreateSiteRequest 创建存储点请求
type CreateSiteRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"一号仓"`
	SiteFields
}

// UpdateSiteRequest 修改存储点请求（is_active=false即停用）
type UpdateSiteRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100" example:"一号仓"`
	SiteFields
}

// ListSitesRequest 存储点列表请求
type ListSitesRequest struct {
	PageQuery
	Active *bool `form:"active" example:"true"`
}

// Fields 转换为应用层字段集
func (f SiteFields) Fields() appsite.Fields {
	return appsite.Fields{
		Address:      f.Address,
		ContactName:  f.ContactName,
		ContactPhone: f.ContactPhone,
		ContactEmail: f.ContactEmail,
		Capacity:     f.Capacity,
		IsActive:     f.IsActive,
		Notes:        f.Notes,
	}
}

// Fields 修改请求的字段集（含名称）
func (r *UpdateSiteRequest) Fields() appsite.Fields {
	fields := r.SiteFields.Fields()
	fields.Name = r.Name
	return fields
}

// SiteResponse 存储点响应
type SiteResponse struct {
	ID           uint   `json:"id" example:"1"`
	Name         string `json:"name" example:"一号仓"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Capacity     int    `json:"capacity" example:"1000"`
	IsActive     bool   `json:"is_active" example:"true"`
	Notes        string `json:"notes"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// NewSiteResponse 领域实体转换为HTTP响应
func NewSiteResponse(s *site.Site) *SiteResponse {
	return &SiteResponse{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		Capacity:     s.Capacity,
		IsActive:     s.IsActive,
		Notes:        s.Notes,
		CreatedAt:    FormatTime(s.CreatedAt),
		UpdatedAt:    FormatTime(s.UpdatedAt),
	}
}

// NewSiteList 批量转换
func NewSiteList(list []*site.Site) []*SiteResponse {
	out := make([]*SiteResponse, 0, len(list))
	for _, s := range list {
		out = append(out, NewSiteResponse(s))
	}
	return out
}
