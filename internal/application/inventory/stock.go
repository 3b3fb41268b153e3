package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/application"
	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
	"github.com/xiebiao/inventory-pos/pkg/tracing"
)

const tracerName = "inventory"

// StockUseCase 库存变动用例：入库、出库、调拨、盘点调整
//
// 每个操作都在一个事务内完成：
//  1. 锁定商品行（SELECT ... FOR UPDATE），出库类操作在锁内检查库存
//  2. 追加流水
//  3. 用原子表达式修改products.quantity
//  4. 写审计日志
//
// 任一步失败整体回滚，流水合计与商品库存始终一致。
type StockUseCase struct {
	txManager   application.TxManager
	stockRepo   inventory.StockRepository
	ledgerRepo  inventory.LedgerRepository
	productRepo product.Repository
	siteRepo    site.Repository
	auditRepo   audit.Repository
	logger      *zap.Logger
}

// NewStockUseCase 创建库存变动用例
func NewStockUseCase(
	txManager application.TxManager,
	stockRepo inventory.StockRepository,
	ledgerRepo inventory.LedgerRepository,
	productRepo product.Repository,
	siteRepo site.Repository,
	auditRepo audit.Repository,
	logger *zap.Logger,
) *StockUseCase {
	return &StockUseCase{
		txManager:   txManager,
		stockRepo:   stockRepo,
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		siteRepo:    siteRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// MovementResult 库存变动结果
type MovementResult struct {
	Product      *product.Product
	Transactions []*inventory.Transaction
}

// AdjustRequest 盘点调整请求
type AdjustRequest struct {
	ProductID uint
	Change    decimal.Decimal // 带符号，正数盘盈，负数盘亏
	Reason    string
	UserID    *uint
}

// Add 入库
func (uc *StockUseCase) Add(ctx context.Context, m inventory.Movement) (result *MovementResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AddStock", attribute.Int64("product_id", int64(m.ProductID)))
	defer func() {
		uc.observe("add", result, err)
		tracing.EndSpan(span, err)
	}()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.ensureSite(txCtx, m.FromSiteID, false); err != nil {
			return err
		}
		if _, err := uc.stockRepo.LockProduct(txCtx, m.ProductID); err != nil {
			return err
		}

		entry := inventory.NewIn(m)
		if err := uc.ledgerRepo.Append(txCtx, entry); err != nil {
			return err
		}
		if err := uc.stockRepo.IncreaseQuantity(txCtx, m.ProductID, m.Quantity); err != nil {
			return err
		}
		if err := uc.record(txCtx, m.UserID, audit.ActionStockAdd, m, entry); err != nil {
			return err
		}

		result, err = uc.reload(txCtx, m.ProductID, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove 出库
// 库存检查在行锁内完成，并发出库时后到的事务会看到已扣减后的库存
func (uc *StockUseCase) Remove(ctx context.Context, m inventory.Movement) (result *MovementResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RemoveStock", attribute.Int64("product_id", int64(m.ProductID)))
	defer func() {
		uc.observe("remove", result, err)
		tracing.EndSpan(span, err)
	}()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.ensureSite(txCtx, m.ToSiteID, false); err != nil {
			return err
		}
		p, err := uc.stockRepo.LockProduct(txCtx, m.ProductID)
		if err != nil {
			return err
		}
		if !p.Has(m.Quantity) {
			return inventory.NewInsufficientStockError(p, m.Quantity)
		}

		entry := inventory.NewOut(m)
		if err := uc.ledgerRepo.Append(txCtx, entry); err != nil {
			return err
		}
		if err := uc.stockRepo.DecreaseQuantity(txCtx, m.ProductID, m.Quantity); err != nil {
			return err
		}
		if err := uc.record(txCtx, m.UserID, audit.ActionStockRemove, m, entry); err != nil {
			return err
		}

		result, err = uc.reload(txCtx, m.ProductID, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer 调拨
// 写入成对的TRANSFER_OUT/TRANSFER_IN流水并更新商品所在存储点，库存数量不变
func (uc *StockUseCase) Transfer(ctx context.Context, m inventory.Movement) (result *MovementResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "TransferStock", attribute.Int64("product_id", int64(m.ProductID)))
	defer func() {
		uc.observe("transfer", result, err)
		tracing.EndSpan(span, err)
	}()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.FromSiteID == nil || m.ToSiteID == nil {
		return nil, inventory.ErrSitesRequired
	}
	if *m.FromSiteID == *m.ToSiteID {
		return nil, inventory.ErrSameSite
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.ensureSite(txCtx, m.FromSiteID, true); err != nil {
			return err
		}
		if err := uc.ensureSite(txCtx, m.ToSiteID, true); err != nil {
			return err
		}

		p, err := uc.stockRepo.LockProduct(txCtx, m.ProductID)
		if err != nil {
			return err
		}
		if !p.Has(m.Quantity) {
			return inventory.NewInsufficientStockError(p, m.Quantity)
		}

		out, in := inventory.NewTransferPair(m)
		if err := uc.ledgerRepo.Append(txCtx, out, in); err != nil {
			return err
		}
		if err := uc.stockRepo.MoveToSite(txCtx, m.ProductID, *m.ToSiteID); err != nil {
			return err
		}
		if err := uc.record(txCtx, m.UserID, audit.ActionStockTransfer, m, out, in); err != nil {
			return err
		}

		result, err = uc.reload(txCtx, m.ProductID, out, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Adjust 盘点调整
// 盘盈、盘亏统一写ADJUSTMENT流水，调整后库存不能为负
func (uc *StockUseCase) Adjust(ctx context.Context, req AdjustRequest) (result *MovementResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AdjustStock", attribute.Int64("product_id", int64(req.ProductID)))
	defer func() {
		uc.observe("adjust", result, err)
		tracing.EndSpan(span, err)
	}()

	if req.ProductID == 0 {
		return nil, inventory.ErrProductRequired
	}
	if req.Change.IsZero() {
		return nil, inventory.ErrZeroAdjustment
	}
	if !product.FitsScale(req.Change, product.QuantityScale) {
		return nil, inventory.ErrInvalidQuantity
	}
	if req.Reason == "" {
		return nil, inventory.ErrReasonRequired
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.stockRepo.LockProduct(txCtx, req.ProductID)
		if err != nil {
			return err
		}

		decrease := req.Change.Neg()
		if req.Change.IsNegative() && !p.Has(decrease) {
			return inventory.NewInsufficientStockError(p, decrease)
		}

		entry := inventory.NewAdjustment(req.ProductID, req.Change, req.Reason, req.UserID)
		if err := uc.ledgerRepo.Append(txCtx, entry); err != nil {
			return err
		}

		if req.Change.IsPositive() {
			err = uc.stockRepo.IncreaseQuantity(txCtx, req.ProductID, req.Change)
		} else {
			err = uc.stockRepo.DecreaseQuantity(txCtx, req.ProductID, decrease)
		}
		if err != nil {
			return err
		}

		details := map[string]interface{}{
			"product_id":     req.ProductID,
			"change":         req.Change.String(),
			"reason":         req.Reason,
			"transaction_id": entry.ID,
		}
		if err := audit.Record(txCtx, uc.auditRepo, req.UserID, audit.ActionStockAdjust, details); err != nil {
			return err
		}

		result, err = uc.reload(txCtx, req.ProductID, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ensureSite 校验存储点存在；requireActive时停用的存储点也不允许
func (uc *StockUseCase) ensureSite(ctx context.Context, siteID *uint, requireActive bool) error {
	if siteID == nil {
		return nil
	}
	s, err := uc.siteRepo.FindByID(ctx, *siteID)
	if err != nil {
		return err
	}
	if requireActive {
		return s.EnsureActive()
	}
	return nil
}

func (uc *StockUseCase) record(ctx context.Context, userID *uint, action string, m inventory.Movement, entries ...*inventory.Transaction) error {
	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	details := map[string]interface{}{
		"product_id":      m.ProductID,
		"quantity":        m.Quantity.String(),
		"transaction_ids": ids,
	}
	if m.FromSiteID != nil {
		details["from_site_id"] = *m.FromSiteID
	}
	if m.ToSiteID != nil {
		details["to_site_id"] = *m.ToSiteID
	}
	if m.Reference != "" {
		details["reference_number"] = m.Reference
	}
	return audit.Record(ctx, uc.auditRepo, userID, action, details)
}

// reload 事务内重新读取商品，返回变动后的库存
func (uc *StockUseCase) reload(ctx context.Context, productID uint, entries ...*inventory.Transaction) (*MovementResult, error) {
	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &MovementResult{Product: p, Transactions: entries}, nil
}

// observe 事务结束后记录指标与日志
func (uc *StockUseCase) observe(operation string, result *MovementResult, err error) {
	if err != nil {
		reason := application.FailureReason(err)
		metrics.RecordStockFailure(operation, reason)
		if reason == "internal" {
			uc.logger.Error("库存操作失败", zap.String("operation", operation), zap.Error(err))
		}
		return
	}

	for _, tx := range result.Transactions {
		metrics.RecordStockMovement(string(tx.Type))
	}
	uc.logger.Info("库存已变动",
		zap.String("operation", operation),
		zap.Uint("product_id", result.Product.ID),
		zap.String("quantity", result.Product.Quantity.String()),
	)
}
