package inventory

import (
	"context"

	"github.com/xiebiao/inventory-pos/internal/application"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

// QueryUseCase 库存查询：流水历史、库存预警、对账
type QueryUseCase struct {
	txManager   application.TxManager
	stockRepo   inventory.StockRepository
	ledgerRepo  inventory.LedgerRepository
	productRepo product.Repository
}

// NewQueryUseCase 创建库存查询用例
func NewQueryUseCase(
	txManager application.TxManager,
	stockRepo inventory.StockRepository,
	ledgerRepo inventory.LedgerRepository,
	productRepo product.Repository,
) *QueryUseCase {
	return &QueryUseCase{
		txManager:   txManager,
		stockRepo:   stockRepo,
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
	}
}

// History 商品最近的流水，最新的在前
func (uc *QueryUseCase) History(ctx context.Context, productID uint, limit int) ([]*inventory.TransactionView, error) {
	if _, err := uc.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.ledgerRepo.ListByProduct(ctx, productID, inventory.ClampHistoryLimit(limit))
}

// LowStock 低库存预警
func (uc *QueryUseCase) LowStock(ctx context.Context) ([]*product.Product, error) {
	return uc.stockRepo.LowStock(ctx)
}

// Overstock 超储预警
func (uc *QueryUseCase) Overstock(ctx context.Context) ([]*product.Product, error) {
	return uc.stockRepo.Overstock(ctx)
}

// Reconcile 对账：商品库存与流水合计比较
// 锁定商品行后读取，避免与进行中的库存变动交错
func (uc *QueryUseCase) Reconcile(ctx context.Context, productID uint) (inventory.Reconciliation, error) {
	var rec inventory.Reconciliation
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.stockRepo.LockProduct(txCtx, productID)
		if err != nil {
			return err
		}
		sum, err := uc.ledgerRepo.SignedSum(txCtx, productID)
		if err != nil {
			return err
		}
		rec = inventory.NewReconciliation(productID, p.Quantity, sum)
		return nil
	})
	return rec, err
}
