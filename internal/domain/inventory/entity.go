package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
)

// TransactionType 库存流水类型
type TransactionType string

const (
	TypeIn          TransactionType = "IN"
	TypeOut         TransactionType = "OUT"
	TypeTransferIn  TransactionType = "TRANSFER_IN"
	TypeTransferOut TransactionType = "TRANSFER_OUT"
	TypeAdjustment  TransactionType = "ADJUSTMENT"
)

// Valid 是否为合法流水类型
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIn, TypeOut, TypeTransferIn, TypeTransferOut, TypeAdjustment:
		return true
	}
	return false
}

// Transaction 库存流水（不可变）
// 设计说明：
// 1. 流水只追加不修改，纠错通过新增反向流水完成
// 2. IN/OUT/TRANSFER_*的Quantity是正数量级，ADJUSTMENT的Quantity是带符号的变化量
// 3. 任意时刻：商品库存 == Σ SignedQuantity()
type Transaction struct {
	ID              uint
	ProductID       uint
	Type            TransactionType
	Quantity        decimal.Decimal
	FromSiteID      *uint
	ToSiteID        *uint
	ReferenceNumber string
	Notes           string
	UserID          *uint
	CreatedAt       time.Time
}

// SignedQuantity 该流水对商品库存的影响
// 调拨出入成对出现，合计为0
func (t *Transaction) SignedQuantity() decimal.Decimal {
	switch t.Type {
	case TypeIn, TypeTransferIn, TypeAdjustment:
		return t.Quantity
	case TypeOut, TypeTransferOut:
		return t.Quantity.Neg()
	}
	return decimal.Zero
}

// Movement 一次库存变动的公共参数
type Movement struct {
	ProductID  uint
	Quantity   decimal.Decimal
	FromSiteID *uint
	ToSiteID   *uint
	Reference  string
	Notes      string
	UserID     *uint
}

// Validate 数量必须为正且不超过3位小数
func (m Movement) Validate() error {
	if m.ProductID == 0 {
		return ErrProductRequired
	}
	if !m.Quantity.IsPositive() || !product.FitsScale(m.Quantity, product.QuantityScale) {
		return ErrInvalidQuantity
	}
	return nil
}

func (m Movement) entry(typ TransactionType, qty decimal.Decimal) *Transaction {
	return &Transaction{
		ProductID:       m.ProductID,
		Type:            typ,
		Quantity:        qty,
		FromSiteID:      m.FromSiteID,
		ToSiteID:        m.ToSiteID,
		ReferenceNumber: m.Reference,
		Notes:           m.Notes,
		UserID:          m.UserID,
		CreatedAt:       time.Now(),
	}
}

// NewIn 入库流水
func NewIn(m Movement) *Transaction {
	return m.entry(TypeIn, m.Quantity)
}

// NewOut 出库流水
func NewOut(m Movement) *Transaction {
	return m.entry(TypeOut, m.Quantity)
}

// NewTransferPair 调拨流水（先出后入）
func NewTransferPair(m Movement) (out, in *Transaction) {
	return m.entry(TypeTransferOut, m.Quantity), m.entry(TypeTransferIn, m.Quantity)
}

// NewAdjustment 盘点调整流水，change带符号，原因记录在Notes
func NewAdjustment(productID uint, change decimal.Decimal, reason string, userID *uint) *Transaction {
	m := Movement{ProductID: productID, Notes: reason, UserID: userID}
	return m.entry(TypeAdjustment, change)
}

// TransactionView 流水展示（附带存储点名称与操作人）
type TransactionView struct {
	Transaction
	FromSiteName string
	ToSiteName   string
	Username     string
}

// Reconciliation 库存对账结果
type Reconciliation struct {
	ProductID uint
	Quantity  decimal.Decimal // 商品行上的库存
	LedgerSum decimal.Decimal // 流水带符号合计
	Drift     decimal.Decimal // Quantity - LedgerSum
}

// NewReconciliation 计算偏差
func NewReconciliation(productID uint, quantity, ledgerSum decimal.Decimal) Reconciliation {
	return Reconciliation{
		ProductID: productID,
		Quantity:  quantity,
		LedgerSum: ledgerSum,
		Drift:     quantity.Sub(ledgerSum),
	}
}

// Consistent 流水与库存一致
func (r Reconciliation) Consistent() bool {
	return r.Drift.IsZero()
}

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// ClampHistoryLimit 流水查询条数：0或负数取默认值，超过上限截断
func ClampHistoryLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
