package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/domain/site"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// siteRepository 存储点仓储实现(MySQL)
type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository 创建存储点仓储
func NewSiteRepository(db *gorm.DB) site.Repository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(ctx context.Context, s *site.Site) error {
	model := toSiteModel(s)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return site.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "创建存储点失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *siteRepository) FindByID(ctx context.Context, id uint) (*site.Site, error) {
	var model StorageSiteModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, site.ErrSiteNotFound
		}
		return nil, apperrors.Wrap(err, "查询存储点失败")
	}
	return toSiteEntity(&model), nil
}

// Update 更新全部字段（Save会写入零值，如is_active=false）
func (r *siteRepository) Update(ctx context.Context, s *site.Site) error {
	model := toSiteModel(s)
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return site.ErrNameDuplicate
		}
		return apperrors.Wrap(err, "更新存储点失败")
	}
	s.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 物理删除
// 外键：商品storage_site_id与流水站点字段均为ON DELETE SET NULL
func (r *siteRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&StorageSiteModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return site.ErrSiteInUse
		}
		return apperrors.Wrap(result.Error, "删除存储点失败")
	}
	if result.RowsAffected == 0 {
		return site.ErrSiteNotFound
	}
	return nil
}

func (r *siteRepository) List(ctx context.Context, params site.ListParams) ([]*site.Site, int64, error) {
	var models []StorageSiteModel
	var total int64

	query := getDB(ctx, r.db).Model(&StorageSiteModel{})
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询存储点总数失败")
	}

	limit, offset := paging(params.Page, params.PageSize)
	if err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询存储点列表失败")
	}

	sites := make([]*site.Site, len(models))
	for i := range models {
		sites[i] = toSiteEntity(&models[i])
	}
	return sites, total, nil
}

func toSiteModel(s *site.Site) *StorageSiteModel {
	return &StorageSiteModel{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		Capacity:     s.Capacity,
		IsActive:     s.IsActive,
		Notes:        s.Notes,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toSiteEntity(m *StorageSiteModel) *site.Site {
	return &site.Site{
		ID:           m.ID,
		Name:         m.Name,
		Address:      m.Address,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Capacity:     m.Capacity,
		IsActive:     m.IsActive,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
