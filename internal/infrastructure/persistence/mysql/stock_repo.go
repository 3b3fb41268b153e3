package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// stockRepository products.quantity的唯一写入口
// 设计说明:
// 1. 所有写操作都是单条UPDATE表达式，不做读后写
// 2. 必须使用getDB(ctx)参与调用方的事务
type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository 创建库存仓储
func NewStockRepository(db *gorm.DB) inventory.StockRepository {
	return &stockRepository{db: db}
}

// LockProduct 悲观锁查询商品
// SELECT * FROM products WHERE id = ? AND deleted_at IS NULL FOR UPDATE
// 行锁持有到事务提交或回滚，其他事务对同一商品的LockProduct会阻塞等待
func (r *stockRepository) LockProduct(ctx context.Context, productID uint) (*product.Product, error) {
	var model ProductModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}
	return toProductEntity(&model), nil
}

// IncreaseQuantity UPDATE products SET quantity = quantity + ? WHERE id = ?
func (r *stockRepository) IncreaseQuantity(ctx context.Context, productID uint, qty decimal.Decimal) error {
	result := getDB(ctx, r.db).Model(&ProductModel{}).
		Where("id = ?", productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "增加库存失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// DecreaseQuantity UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?
func (r *stockRepository) DecreaseQuantity(ctx context.Context, productID uint, qty decimal.Decimal) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ProductModel{}).
		Where("id = ?", productID).
		Where("quantity >= ?", qty). // 防止库存为负
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是商品不存在，或者库存不足，再查一次确定原因
		var model ProductModel
		if err := db.First(&model, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return product.ErrProductNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		return inventory.NewInsufficientStockError(toProductEntity(&model), qty)
	}
	return nil
}

// MoveToSite 更新商品当前存储点
// 调用方已在同一事务内LockProduct，商品一定存在；
// 存储点未变化时MySQL返回RowsAffected=0，不能据此判断不存在
func (r *stockRepository) MoveToSite(ctx context.Context, productID, siteID uint) error {
	err := getDB(ctx, r.db).Model(&ProductModel{}).
		Where("id = ?", productID).
		Update("storage_site_id", siteID).Error
	if err != nil {
		return apperrors.Wrap(err, "更新商品存储点失败")
	}
	return nil
}

// LowStock 低库存预警，缺口最大的在前
func (r *stockRepository) LowStock(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	err := getDB(ctx, r.db).
		Where("quantity <= min_quantity").
		Order("quantity ASC").Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询低库存商品失败")
	}
	return toProductEntities(models), nil
}

// Overstock 超储预警，超出最多的在前
func (r *stockRepository) Overstock(ctx context.Context) ([]*product.Product, error) {
	var models []ProductModel
	err := getDB(ctx, r.db).
		Where("max_quantity > 0 AND quantity > max_quantity").
		Order("quantity - max_quantity DESC").Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询超储商品失败")
	}
	return toProductEntities(models), nil
}
