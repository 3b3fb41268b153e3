package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

// ledgerRepository 库存流水仓储(MySQL)
// 只有INSERT与SELECT，没有UPDATE/DELETE
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建流水仓储
func NewLedgerRepository(db *gorm.DB) inventory.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append 批量追加流水
func (r *ledgerRepository) Append(ctx context.Context, txs ...*inventory.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	models := make([]InventoryTransactionModel, len(txs))
	for i, tx := range txs {
		models[i] = InventoryTransactionModel{
			ProductID:         tx.ProductID,
			TransactionType:   string(tx.Type),
			Quantity:          tx.Quantity,
			FromStorageSiteID: tx.FromSiteID,
			ToStorageSiteID:   tx.ToSiteID,
			ReferenceNumber:   tx.ReferenceNumber,
			Notes:             tx.Notes,
			UserID:            tx.UserID,
			CreatedAt:         tx.CreatedAt.UTC(), // 零值时由GORM填充
		}
	}

	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "写入库存流水失败")
	}

	for i := range txs {
		txs[i].ID = models[i].ID
		txs[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

// transactionRow 流水联表查询结果
type transactionRow struct {
	InventoryTransactionModel
	FromSiteName string
	ToSiteName   string
	Username     string
}

// ListByProduct 最近的流水，附带存储点名称与操作人
func (r *ledgerRepository) ListByProduct(ctx context.Context, productID uint, limit int) ([]*inventory.TransactionView, error) {
	var rows []transactionRow
	err := getDB(ctx, r.db).
		Table("inventory_transactions AS t").
		Select(`t.*,
			COALESCE(fs.name, '') AS from_site_name,
			COALESCE(ts.name, '') AS to_site_name,
			COALESCE(u.username, '') AS username`).
		Joins("LEFT JOIN storage_sites fs ON fs.id = t.from_storage_site_id").
		Joins("LEFT JOIN storage_sites ts ON ts.id = t.to_storage_site_id").
		Joins("LEFT JOIN users u ON u.id = t.user_id").
		Where("t.product_id = ?", productID).
		Order("t.created_at DESC").Order("t.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询库存流水失败")
	}

	views := make([]*inventory.TransactionView, len(rows))
	for i, row := range rows {
		views[i] = &inventory.TransactionView{
			Transaction: inventory.Transaction{
				ID:              row.ID,
				ProductID:       row.ProductID,
				Type:            inventory.TransactionType(row.TransactionType),
				Quantity:        row.Quantity,
				FromSiteID:      row.FromStorageSiteID,
				ToSiteID:        row.ToStorageSiteID,
				ReferenceNumber: row.ReferenceNumber,
				Notes:           row.Notes,
				UserID:          row.UserID,
				CreatedAt:       row.CreatedAt,
			},
			FromSiteName: row.FromSiteName,
			ToSiteName:   row.ToSiteName,
			Username:     row.Username,
		}
	}
	return views, nil
}

// SignedSum 流水带符号合计
func (r *ledgerRepository) SignedSum(ctx context.Context, productID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	err := getDB(ctx, r.db).Model(&InventoryTransactionModel{}).
		Select(`SUM(CASE transaction_type
			WHEN 'OUT' THEN -quantity
			WHEN 'TRANSFER_OUT' THEN -quantity
			ELSE quantity END) AS total`).
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(err, "汇总库存流水失败")
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}
