package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// productRepository 商品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/product/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 不写quantity列：库存只由stockRepository修改
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品（库存从0开始）
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)
	model.Quantity = decimal.Zero

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrPartNumberConflict
		}
		return apperrors.Wrap(err, "创建商品失败")
	}

	p.ID = model.ID
	p.Quantity = model.Quantity
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// FindByPartNumber 根据零件号查找商品
func (r *productRepository) FindByPartNumber(ctx context.Context, partNumber string) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).Where("part_number = ?", partNumber).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// Update 更新商品目录属性
// 使用Select明确列出可写列，quantity不在其中
// 调用方需先确认商品存在（MySQL在值未变化时RowsAffected为0，不能据此判断）
func (r *productRepository) Update(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)
	err := getDB(ctx, r.db).Model(&ProductModel{ID: p.ID}).
		Select("name", "description", "value", "part_number", "type", "location",
			"min_quantity", "max_quantity", "storage_site_id", "updated_at").
		Updates(model).Error

	if err != nil {
		if isDuplicateError(err) {
			return product.ErrPartNumberConflict
		}
		return apperrors.Wrap(err, "更新商品失败")
	}
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除商品(软删除)
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ProductModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除商品失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// List 分页查询商品列表
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	query := getDB(ctx, r.db).Model(&ProductModel{})

	// 关键词搜索(名称、零件号)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR part_number LIKE ?", keyword, keyword)
	}
	if params.Type != "" {
		query = query.Where("type = ?", string(params.Type))
	}
	if params.Location != "" {
		query = query.Where("location = ?", string(params.Location))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	limit, offset := paging(params.Page, params.PageSize)
	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	return toProductEntities(models), total, nil
}

// CountBySite 统计当前位于该存储点的商品
func (r *productRepository) CountBySite(ctx context.Context, siteID uint) (int64, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&ProductModel{}).Where("storage_site_id = ?", siteID).Count(&n).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计商品失败")
	}
	return n, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Quantity:      p.Quantity,
		Value:         p.Value,
		PartNumber:    p.PartNumber,
		Type:          string(p.Type),
		Location:      string(p.Location),
		MinQuantity:   p.MinQuantity,
		MaxQuantity:   p.MaxQuantity,
		StorageSiteID: p.StorageSiteID,
	}
}

func toProductEntity(model *ProductModel) *product.Product {
	return &product.Product{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		Quantity:      model.Quantity,
		Value:         model.Value,
		PartNumber:    model.PartNumber,
		Type:          product.Type(model.Type),
		Location:      product.Location(model.Location),
		MinQuantity:   model.MinQuantity,
		MaxQuantity:   model.MaxQuantity,
		StorageSiteID: model.StorageSiteID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toProductEntities(models []ProductModel) []*product.Product {
	out := make([]*product.Product, len(models))
	for i := range models {
		out[i] = toProductEntity(&models[i])
	}
	return out
}
