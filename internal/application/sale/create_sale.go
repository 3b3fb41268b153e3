package sale

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/application"
	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
	"github.com/xiebiao/inventory-pos/pkg/tracing"
)

const tracerName = "sale"

// ReceiptQueue 小票投递队列（notify.Dispatcher实现）
type ReceiptQueue interface {
	Enqueue(r sale.Receipt) bool
}

// CacheInvalidator 报表缓存失效
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CreateSaleUseCase 收银下单用例
//
// 整个销售在一个事务内完成：
//  1. 按商品ID升序逐个SELECT ... FOR UPDATE（固定加锁顺序，避免死锁）
//  2. 在锁内按商品合计数量检查库存
//  3. 创建销售单与明细（单价快照）
//  4. 每行明细：条件扣减库存 + OUT流水（reference_number = sale_no）
//  5. 审计日志
//
// 提交后才投递小票、刷新报表缓存，二者失败都不影响销售。
type CreateSaleUseCase struct {
	txManager  application.TxManager
	saleRepo   sale.Repository
	stockRepo  inventory.StockRepository
	ledgerRepo inventory.LedgerRepository
	auditRepo  audit.Repository
	policy     sale.PricePolicy
	receipts   ReceiptQueue
	cache      CacheInvalidator
	logger     *zap.Logger
}

// NewCreateSaleUseCase 创建收银下单用例
// receipts、cache可以为nil
func NewCreateSaleUseCase(
	txManager application.TxManager,
	saleRepo sale.Repository,
	stockRepo inventory.StockRepository,
	ledgerRepo inventory.LedgerRepository,
	auditRepo audit.Repository,
	policy sale.PricePolicy,
	receipts ReceiptQueue,
	cache CacheInvalidator,
	logger *zap.Logger,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txManager:  txManager,
		saleRepo:   saleRepo,
		stockRepo:  stockRepo,
		ledgerRepo: ledgerRepo,
		auditRepo:  auditRepo,
		policy:     policy,
		receipts:   receipts,
		cache:      cache,
		logger:     logger,
	}
}

// CreateSaleRequest 下单请求
type CreateSaleRequest struct {
	UserID   *uint // 收银员（从JWT中提取）
	Customer sale.Customer
	Items    []CreateSaleItem
}

// CreateSaleItem 购物车行
type CreateSaleItem struct {
	ProductID uint
	Quantity  decimal.Decimal
	Price     *decimal.Decimal // nil时取目录价
}

// Execute 执行下单
func (uc *CreateSaleUseCase) Execute(ctx context.Context, req CreateSaleRequest) (result *sale.Sale, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateSale", attribute.Int("items", len(req.Items)))
	defer func() {
		uc.observe(result, err, time.Since(start))
		tracing.EndSpan(span, err)
	}()

	if err := validate(req.Items); err != nil {
		return nil, err
	}

	var receipt sale.Receipt
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1：固定顺序加锁
		locked, err := uc.lockProducts(txCtx, req.Items)
		if err != nil {
			return err
		}

		// 步骤2：锁内检查库存（同一商品多行时合计）
		totals := sumByProduct(req.Items)
		for _, line := range req.Items {
			p, qty := locked[line.ProductID], totals[line.ProductID]
			if !p.Has(qty) {
				return inventory.NewInsufficientStockError(p, qty)
			}
		}

		// 步骤3：确定成交单价并创建销售单
		items := make([]sale.Item, len(req.Items))
		for i, line := range req.Items {
			p := locked[line.ProductID]
			price, err := uc.policy.Resolve(line.Price, p.Value)
			if err != nil {
				return err
			}
			items[i] = sale.Item{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				Price:       price,
			}
		}

		s, err := sale.NewSale(sale.GenerateSaleNo(), req.UserID, req.Customer, items)
		if err != nil {
			return err
		}
		if err := uc.saleRepo.Create(txCtx, s); err != nil {
			return err
		}

		// 步骤4：扣减库存并写出库流水
		entries := make([]*inventory.Transaction, len(s.Items))
		for i, item := range s.Items {
			if err := uc.stockRepo.DecreaseQuantity(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			entries[i] = inventory.NewOut(inventory.Movement{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Reference: s.SaleNo,
				Notes:     "sale",
				UserID:    req.UserID,
			})
		}
		if err := uc.ledgerRepo.Append(txCtx, entries...); err != nil {
			return err
		}

		// 步骤5：审计
		details := map[string]interface{}{
			"sale_id":    s.ID,
			"sale_no":    s.SaleNo,
			"total":      s.Total.String(),
			"item_count": len(s.Items),
		}
		if err := audit.Record(txCtx, uc.auditRepo, req.UserID, audit.ActionSaleCreate, details); err != nil {
			return err
		}

		result = s
		receipt = sale.NewReceipt(s, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, result, receipt)
	return result, nil
}

// lockProducts 按ID升序锁定购物车中的商品
// 两笔销售包含相同商品时加锁顺序一致，不会互相等待对方持有的锁
func (uc *CreateSaleUseCase) lockProducts(ctx context.Context, items []CreateSaleItem) (map[uint]*product.Product, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[uint]*product.Product, len(ids))
	for _, id := range ids {
		p, err := uc.stockRepo.LockProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

// afterCommit 刷新报表缓存，有顾客邮箱时投递小票
func (uc *CreateSaleUseCase) afterCommit(ctx context.Context, s *sale.Sale, receipt sale.Receipt) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("刷新报表缓存失败", zap.String("sale_no", s.SaleNo), zap.Error(err))
		}
	}

	if uc.receipts != nil && s.Customer.Email != "" {
		uc.receipts.Enqueue(receipt)
	}
}

func (uc *CreateSaleUseCase) observe(s *sale.Sale, err error, elapsed time.Duration) {
	metrics.SaleCreationDuration.Observe(elapsed.Seconds())

	if err != nil {
		reason := application.FailureReason(err)
		metrics.RecordSaleFailure(reason)
		if reason == "internal" {
			uc.logger.Error("创建销售单失败", zap.Error(err))
		}
		return
	}

	metrics.SalesCreatedTotal.Inc()
	uc.logger.Info("销售单已创建",
		zap.String("sale_no", s.SaleNo),
		zap.String("total", s.Total.String()),
		zap.Int("items", len(s.Items)),
		zap.Duration("elapsed", elapsed),
	)
}

// validate 加锁前的参数校验
func validate(items []CreateSaleItem) error {
	if len(items) == 0 {
		return sale.ErrEmptyCart
	}
	for _, item := range items {
		if item.ProductID == 0 {
			return sale.ErrProductRequired
		}
		if !item.Quantity.IsPositive() || !product.FitsScale(item.Quantity, product.QuantityScale) {
			return sale.ErrInvalidQuantity
		}
		if item.Price != nil && (item.Price.IsNegative() || !product.FitsScale(*item.Price, product.MoneyScale)) {
			return sale.ErrInvalidPrice
		}
	}
	return nil
}

func sumByProduct(items []CreateSaleItem) map[uint]decimal.Decimal {
	m := make(map[uint]decimal.Decimal, len(items))
	for _, item := range items {
		m[item.ProductID] = m[item.ProductID].Add(item.Quantity)
	}
	return m
}
