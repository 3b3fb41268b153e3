package product

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/application"
	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
)

// openingNote 期初库存流水的备注
const openingNote = "opening balance"

// UseCase 商品管理用例
// 设计说明：
// 1. 商品目录属性通过product.Service修改，库存数量不在这里修改
// 2. 创建时的期初数量写成一条IN流水，与商品在同一事务提交
type UseCase struct {
	txManager   application.TxManager
	service     product.Service
	productRepo product.Repository
	stockRepo   inventory.StockRepository
	ledgerRepo  inventory.LedgerRepository
	siteRepo    site.Repository
	auditRepo   audit.Repository
	logger      *zap.Logger
}

// NewUseCase 创建商品管理用例
func NewUseCase(
	txManager application.TxManager,
	service product.Service,
	productRepo product.Repository,
	stockRepo inventory.StockRepository,
	ledgerRepo inventory.LedgerRepository,
	siteRepo site.Repository,
	auditRepo audit.Repository,
	logger *zap.Logger,
) *UseCase {
	return &UseCase{
		txManager:   txManager,
		service:     service,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		ledgerRepo:  ledgerRepo,
		siteRepo:    siteRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// CreateRequest 创建商品请求
type CreateRequest struct {
	Name            string
	Description     string
	PartNumber      string
	Type            product.Type
	Location        product.Location
	Value           decimal.Decimal
	MinQuantity     decimal.Decimal
	MaxQuantity     decimal.Decimal
	StorageSiteID   *uint
	OpeningQuantity decimal.Decimal // 期初库存，0表示不入库
	UserID          *uint
}

// Create 创建商品
func (uc *UseCase) Create(ctx context.Context, req CreateRequest) (*product.Product, error) {
	if req.OpeningQuantity.IsNegative() || !product.FitsScale(req.OpeningQuantity, product.QuantityScale) {
		return nil, inventory.ErrInvalidQuantity
	}

	p, err := product.NewProduct(req.Name, req.Description, req.PartNumber, req.Type, req.Location,
		req.Value, req.MinQuantity, req.MaxQuantity, req.StorageSiteID)
	if err != nil {
		return nil, err
	}

	var opening *inventory.Transaction
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.ensureSite(txCtx, req.StorageSiteID); err != nil {
			return err
		}
		if err := uc.service.Register(txCtx, p); err != nil {
			return err
		}

		if req.OpeningQuantity.IsPositive() {
			opening = inventory.NewIn(inventory.Movement{
				ProductID: p.ID,
				Quantity:  req.OpeningQuantity,
				ToSiteID:  req.StorageSiteID,
				Notes:     openingNote,
				UserID:    req.UserID,
			})
			if err := uc.ledgerRepo.Append(txCtx, opening); err != nil {
				return err
			}
			if err := uc.stockRepo.IncreaseQuantity(txCtx, p.ID, req.OpeningQuantity); err != nil {
				return err
			}
			p.Quantity = req.OpeningQuantity
		}

		return audit.Record(txCtx, uc.auditRepo, req.UserID, audit.ActionProductCreate, map[string]interface{}{
			"product_id":       p.ID,
			"part_number":      p.PartNumber,
			"opening_quantity": req.OpeningQuantity.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	if opening != nil {
		metrics.RecordStockMovement(string(opening.Type))
	}
	uc.logger.Info("商品已创建", zap.Uint("product_id", p.ID), zap.String("part_number", p.PartNumber))
	return p, nil
}

// Update 修改商品目录属性（库存数量不可修改）
func (uc *UseCase) Update(ctx context.Context, id uint, changes product.Changes, userID *uint) (*product.Product, error) {
	var updated *product.Product
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.ensureSite(txCtx, changes.StorageSiteID); err != nil {
			return err
		}

		p, err := uc.service.Modify(txCtx, id, changes)
		if err != nil {
			return err
		}
		updated = p

		return audit.Record(txCtx, uc.auditRepo, userID, audit.ActionProductUpdate, map[string]interface{}{
			"product_id": p.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 删除商品（软删除，流水与销售明细保留）
func (uc *UseCase) Delete(ctx context.Context, id uint, userID *uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.productRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return audit.Record(txCtx, uc.auditRepo, userID, audit.ActionProductDelete, map[string]interface{}{
			"product_id": id,
		})
	})
}

// Get 查询商品
func (uc *UseCase) Get(ctx context.Context, id uint) (*product.Product, error) {
	return uc.productRepo.FindByID(ctx, id)
}

// List 分页查询商品
func (uc *UseCase) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	return uc.productRepo.List(ctx, params)
}

func (uc *UseCase) ensureSite(ctx context.Context, siteID *uint) error {
	if siteID == nil {
		return nil
	}
	_, err := uc.siteRepo.FindByID(ctx, *siteID)
	return err
}
