package site

import (
	"strings"
	"time"
)

// Site 存储点实体
// 商品当前所在位置与调拨流水的调出、调入方都引用存储点
type Site struct {
	ID           uint
	Name         string
	Address      string
	ContactName  string
	ContactPhone string
	ContactEmail string
	Capacity     int
	IsActive     bool
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSite 创建存储点（默认启用）
func NewSite(name, address string) (*Site, error) {
	now := time.Now()
	s := &Site{
		Name:      strings.TrimSpace(name),
		Address:   address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate 校验存储点属性
func (s *Site) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if s.Capacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Deactivate 停用存储点
func (s *Site) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
}

// EnsureActive 停用的存储点不能参与调拨
func (s *Site) EnsureActive() error {
	if !s.IsActive {
		return ErrSiteInactive
	}
	return nil
}
