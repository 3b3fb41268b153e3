package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// saleRepository 销售单仓储实现(MySQL)
// 1. Sale和SaleItem是聚合关系，必须一起保存
// 2. 查询时使用Preload预加载明细，避免N+1问题
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售单仓储
func NewSaleRepository(db *gorm.DB) sale.Repository {
	return &saleRepository{db: db}
}

// Create 创建销售单（GORM自动保存关联的Items）
// 必须在事务中调用
func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	model := toSaleModel(s)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return sale.ErrSaleNoDuplicate
		}
		return apperrors.Wrap(err, "创建销售单失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	for i := range s.Items {
		s.Items[i].ID = model.Items[i].ID
		s.Items[i].SaleID = model.ID
	}
	return nil
}

// FindByID 查询销售单，明细附带商品名称（含已软删除的商品）
func (r *saleRepository) FindByID(ctx context.Context, id uint) (*sale.Sale, error) {
	var model SaleModel
	err := getDB(ctx, r.db).
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, apperrors.Wrap(err, "查询销售单失败")
	}
	return toSaleEntity(&model), nil
}

// List 分页查询（不含明细）
func (r *saleRepository) List(ctx context.Context, params sale.ListParams) ([]*sale.Sale, int64, error) {
	var models []SaleModel
	var total int64

	query := getDB(ctx, r.db).Model(&SaleModel{})
	if params.From != nil {
		query = query.Where("created_at >= ?", params.From.UTC())
	}
	if params.To != nil {
		query = query.Where("created_at < ?", params.To.UTC())
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询销售单总数失败")
	}

	limit, offset := paging(params.Page, params.PageSize)
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询销售单列表失败")
	}

	sales := make([]*sale.Sale, len(models))
	for i := range models {
		sales[i] = toSaleEntity(&models[i])
	}
	return sales, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toSaleModel(s *sale.Sale) *SaleModel {
	items := make([]SaleItemModel, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemModel{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return &SaleModel{
		SaleNo:         s.SaleNo,
		UserID:         s.UserID,
		Total:          s.Total,
		CustomerName:   s.Customer.Name,
		CustomerEmail:  s.Customer.Email,
		CustomerNumber: s.Customer.Number,
		Items:          items,
		CreatedAt:      s.CreatedAt.UTC(),
	}
}

func toSaleEntity(model *SaleModel) *sale.Sale {
	items := make([]sale.Item, len(model.Items))
	for i, item := range model.Items {
		items[i] = sale.Item{
			ID:        item.ID,
			SaleID:    item.SaleID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			items[i].ProductName = item.Product.Name
		}
	}

	return &sale.Sale{
		ID:     model.ID,
		SaleNo: model.SaleNo,
		UserID: model.UserID,
		Total:  model.Total,
		Customer: sale.Customer{
			Name:   model.CustomerName,
			Email:  model.CustomerEmail,
			Number: model.CustomerNumber,
		},
		Items:     items,
		CreatedAt: model.CreatedAt,
	}
}
