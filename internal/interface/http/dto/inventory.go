package dto

import (
	"github.com/shopspring/decimal"

	appinventory "github.com/xiebiao/inventory-pos/internal/application/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
)

// StockMovementRequest 入库/出库请求
type StockMovementRequest struct {
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string" example:"10"`
	FromSiteID *uint           `json:"from_site_id" example:"1"`
	ToSiteID   *uint           `json:"to_site_id" example:"2"`
	Reference  string          `json:"reference_number" binding:"max=100" example:"PO-20240301-01"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// TransferRequest 调拨请求
type TransferRequest struct {
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string" example:"5"`
	FromSiteID *uint           `json:"from_site_id" binding:"required" example:"1"`
	ToSiteID   *uint           `json:"to_site_id" binding:"required" example:"2"`
	Reference  string          `json:"reference_number" binding:"max=100"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// AdjustRequest 盘点调整请求
type AdjustRequest struct {
	Change decimal.Decimal `json:"change" swaggertype:"string" example:"-2"` // 带符号，正数盘盈，负数盘亏
	Reason string          `json:"reason" binding:"required,max=500" example:"月末盘点"`
}

// HistoryQuery 流水查询参数
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500" example:"50"`
}

// Movement 转换为领域层变动参数
func (r *StockMovementRequest) Movement(productID uint, userID *uint) inventory.Movement {
	return inventory.Movement{
		ProductID:  productID,
		Quantity:   r.Quantity,
		FromSiteID: r.FromSiteID,
		ToSiteID:   r.ToSiteID,
		Reference:  r.Reference,
		Notes:      r.Notes,
		UserID:     userID,
	}
}

// Movement 转换为领域层变动参数
func (r *TransferRequest) Movement(productID uint, userID *uint) inventory.Movement {
	return inventory.Movement{
		ProductID:  productID,
		Quantity:   r.Quantity,
		FromSiteID: r.FromSiteID,
		ToSiteID:   r.ToSiteID,
		Reference:  r.Reference,
		Notes:      r.Notes,
		UserID:     userID,
	}
}

// TransactionResponse 库存流水
type TransactionResponse struct {
	ID              uint            `json:"id" example:"1"`
	ProductID       uint            `json:"product_id" example:"1"`
	Type            string          `json:"transaction_type" example:"IN"`
	Quantity        decimal.Decimal `json:"quantity" swaggertype:"string" example:"10"`
	FromSiteID      *uint           `json:"from_site_id"`
	ToSiteID        *uint           `json:"to_site_id"`
	FromSiteName    string          `json:"from_site_name,omitempty"`
	ToSiteName      string          `json:"to_site_name,omitempty"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	UserID          *uint           `json:"user_id"`
	Username        string          `json:"username,omitempty"`
	CreatedAt       string          `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// NewTransactionResponse 流水转换为HTTP响应
func NewTransactionResponse(t *inventory.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		Type:            string(t.Type),
		Quantity:        t.Quantity,
		FromSiteID:      t.FromSiteID,
		ToSiteID:        t.ToSiteID,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		UserID:          t.UserID,
		CreatedAt:       FormatTime(t.CreatedAt),
	}
}

// NewHistory 流水视图转换为HTTP响应（附带存储点名称与操作人）
func NewHistory(views []*inventory.TransactionView) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(views))
	for _, v := range views {
		r := NewTransactionResponse(&v.Transaction)
		r.FromSiteName = v.FromSiteName
		r.ToSiteName = v.ToSiteName
		r.Username = v.Username
		out = append(out, r)
	}
	return out
}

// MovementResponse 库存变动结果：变动后的商品与本次写入的流水
type MovementResponse struct {
	Product      *ProductResponse       `json:"product"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// NewMovementResponse 用例结果转换为HTTP响应
func NewMovementResponse(r *appinventory.MovementResult) *MovementResponse {
	txs := make([]*TransactionResponse, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		txs = append(txs, NewTransactionResponse(t))
	}
	return &MovementResponse{
		Product:      NewProductResponse(r.Product),
		Transactions: txs,
	}
}

// ReconcileResponse 对账结果
type ReconcileResponse struct {
	ProductID  uint            `json:"product_id" example:"1"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string" example:"20"`
	LedgerSum  decimal.Decimal `json:"ledger_sum" swaggertype:"string" example:"20"`
	Drift      decimal.Decimal `json:"drift" swaggertype:"string" example:"0"`
	Consistent bool            `json:"consistent" example:"true"`
}

// NewReconcileResponse 对账结果转换为HTTP响应
func NewReconcileResponse(r inventory.Reconciliation) *ReconcileResponse {
	return &ReconcileResponse{
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		LedgerSum:  r.LedgerSum,
		Drift:      r.Drift,
		Consistent: r.Consistent(),
	}
}
