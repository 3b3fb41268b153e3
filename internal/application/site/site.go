package site

import (
	"context"
	"strings"

	"github.com/xiebiao/inventory-pos/internal/application"
	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
)

// UseCase 存储点管理用例
type UseCase struct {
	txManager   application.TxManager
	siteRepo    site.Repository
	productRepo product.Repository
	auditRepo   audit.Repository
}

// NewUseCase 创建存储点管理用例
func NewUseCase(
	txManager application.TxManager,
	siteRepo site.Repository,
	productRepo product.Repository,
	auditRepo audit.Repository,
) *UseCase {
	return &UseCase{
		txManager:   txManager,
		siteRepo:    siteRepo,
		productRepo: productRepo,
		auditRepo:   auditRepo,
	}
}

// Fields 存储点可编辑字段（nil表示不修改）
type Fields struct {
	Name         *string
	Address      *string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Capacity     *int
	IsActive     *bool
	Notes        *string
}

func (f Fields) apply(s *site.Site) error {
	if f.Name != nil {
		s.Name = strings.TrimSpace(*f.Name)
	}
	if f.Address != nil {
		s.Address = *f.Address
	}
	if f.ContactName != nil {
		s.ContactName = *f.ContactName
	}
	if f.ContactPhone != nil {
		s.ContactPhone = *f.ContactPhone
	}
	if f.ContactEmail != nil {
		s.ContactEmail = *f.ContactEmail
	}
	if f.Capacity != nil {
		s.Capacity = *f.Capacity
	}
	if f.IsActive != nil {
		s.IsActive = *f.IsActive
	}
	if f.Notes != nil {
		s.Notes = *f.Notes
	}
	return s.Validate()
}

// Create 创建存储点
func (uc *UseCase) Create(ctx context.Context, name string, fields Fields, userID *uint) (*site.Site, error) {
	s, err := site.NewSite(name, "")
	if err != nil {
		return nil, err
	}
	fields.Name = nil
	if err := fields.apply(s); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.siteRepo.Create(txCtx, s); err != nil {
			return err
		}
		return audit.Record(txCtx, uc.auditRepo, userID, audit.ActionSiteCreate, map[string]interface{}{
			"site_id": s.ID,
			"name":    s.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update 修改存储点（IsActive=false即停用）
func (uc *UseCase) Update(ctx context.Context, id uint, fields Fields, userID *uint) (*site.Site, error) {
	var updated *site.Site
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		s, err := uc.siteRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := fields.apply(s); err != nil {
			return err
		}
		if err := uc.siteRepo.Update(txCtx, s); err != nil {
			return err
		}
		updated = s

		return audit.Record(txCtx, uc.auditRepo, userID, audit.ActionSiteUpdate, map[string]interface{}{
			"site_id":   s.ID,
			"is_active": s.IsActive,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 删除存储点
// 仍有商品位于该存储点时拒绝删除，可改为停用
func (uc *UseCase) Delete(ctx context.Context, id uint, userID *uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.siteRepo.FindByID(txCtx, id); err != nil {
			return err
		}

		n, err := uc.productRepo.CountBySite(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return site.ErrSiteInUse
		}

		if err := uc.siteRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return audit.Record(txCtx, uc.auditRepo, userID, audit.ActionSiteDelete, map[string]interface{}{
			"site_id": id,
		})
	})
}

// Get 查询存储点
func (uc *UseCase) Get(ctx context.Context, id uint) (*site.Site, error) {
	return uc.siteRepo.FindByID(ctx, id)
}

// List 分页查询存储点
func (uc *UseCase) List(ctx context.Context, params site.ListParams) ([]*site.Site, int64, error) {
	return uc.siteRepo.List(ctx, params)
}
