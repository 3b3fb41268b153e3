package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type 商品类别（封闭枚举）
type Type string

const (
	TypeAccessories Type = "accessories"
	TypeMerchandise Type = "merchandise"
	TypeWorkshop    Type = "workshop"
)

// Valid 是否为合法类别
func (t Type) Valid() bool {
	switch t {
	case TypeAccessories, TypeMerchandise, TypeWorkshop:
		return true
	}
	return false
}

// Location 商品陈列位置（封闭枚举）
type Location string

const (
	LocationWarehouse Location = "warehouse"
	LocationStore     Location = "store"
)

// Valid 是否为合法位置
func (l Location) Valid() bool {
	return l == LocationWarehouse || l == LocationStore
}

// 小数位上限，与数据库列的精度一致
// 超出精度的输入直接拒绝，不做四舍五入
const (
	QuantityScale int32 = 3
	MoneyScale    int32 = 2
)

// FitsScale d的有效小数位不超过scale（末尾的0不计）
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// Product 商品实体（聚合根）
// 设计说明：
// 1. Quantity是库存流水的投影，只能由库存仓储的原子操作修改
// 2. Value是目录单价，销售时会被快照到销售明细
// 3. MaxQuantity为0表示不设上限
// 4. StorageSiteID是商品当前所在存储点，调拨时更新
type Product struct {
	ID            uint
	Name          string
	Description   string
	Quantity      decimal.Decimal
	Value         decimal.Decimal
	PartNumber    string
	Type          Type
	Location      Location
	MinQuantity   decimal.Decimal
	MaxQuantity   decimal.Decimal
	StorageSiteID *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct 创建新商品（工厂方法）
// 初始库存为0，期初数量由用例层通过IN流水写入
func NewProduct(name, description, partNumber string, typ Type, location Location, value, minQty, maxQty decimal.Decimal, siteID *uint) (*Product, error) {
	now := time.Now()
	p := &Product{
		Name:          strings.TrimSpace(name),
		Description:   description,
		PartNumber:    strings.TrimSpace(partNumber),
		Type:          typ,
		Location:      location,
		Value:         value,
		MinQuantity:   minQty,
		MaxQuantity:   maxQty,
		StorageSiteID: siteID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate 校验商品属性
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.PartNumber == "" {
		return ErrPartNumberRequired
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if !p.Location.Valid() {
		return ErrInvalidLocation
	}
	if p.Value.IsNegative() || !FitsScale(p.Value, MoneyScale) {
		return ErrInvalidValue
	}
	if p.MinQuantity.IsNegative() || p.MaxQuantity.IsNegative() {
		return ErrInvalidThreshold
	}
	if !FitsScale(p.MinQuantity, QuantityScale) || !FitsScale(p.MaxQuantity, QuantityScale) {
		return ErrInvalidThreshold
	}
	if p.MaxQuantity.IsPositive() && p.MaxQuantity.LessThan(p.MinQuantity) {
		return ErrInvalidThreshold
	}
	return nil
}

// Changes 商品可修改字段（nil表示不修改）
// 没有Quantity：库存只能通过入库、出库、调拨、盘点调整变更
type Changes struct {
	Name          *string
	Description   *string
	Value         *decimal.Decimal
	PartNumber    *string
	Type          *Type
	Location      *Location
	MinQuantity   *decimal.Decimal
	MaxQuantity   *decimal.Decimal
	StorageSiteID *uint
}

// Apply 应用修改并重新校验
func (p *Product) Apply(c Changes) error {
	next := *p
	if c.Name != nil {
		next.Name = strings.TrimSpace(*c.Name)
	}
	if c.Description != nil {
		next.Description = *c.Description
	}
	if c.Value != nil {
		next.Value = *c.Value
	}
	if c.PartNumber != nil {
		next.PartNumber = strings.TrimSpace(*c.PartNumber)
	}
	if c.Type != nil {
		next.Type = *c.Type
	}
	if c.Location != nil {
		next.Location = *c.Location
	}
	if c.MinQuantity != nil {
		next.MinQuantity = *c.MinQuantity
	}
	if c.MaxQuantity != nil {
		next.MaxQuantity = *c.MaxQuantity
	}
	if c.StorageSiteID != nil {
		id := *c.StorageSiteID
		next.StorageSiteID = &id
	}

	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now()
	*p = next
	return nil
}

// Has 当前库存是否足够
func (p *Product) Has(qty decimal.Decimal) bool {
	return p.Quantity.GreaterThanOrEqual(qty)
}

// IsLowStock 库存是否低于或等于最低库存
func (p *Product) IsLowStock() bool {
	return p.Quantity.LessThanOrEqual(p.MinQuantity)
}

// IsOverstock 库存是否超过上限
func (p *Product) IsOverstock() bool {
	return p.MaxQuantity.IsPositive() && p.Quantity.GreaterThan(p.MaxQuantity)
}

// Shortage 距最低库存的缺口（不缺返回0）
func (p *Product) Shortage() decimal.Decimal {
	gap := p.MinQuantity.Sub(p.Quantity)
	if gap.IsNegative() {
		return decimal.Zero
	}
	return gap
}

// Excess 超出上限的数量
func (p *Product) Excess() decimal.Decimal {
	if !p.IsOverstock() {
		return decimal.Zero
	}
	return p.Quantity.Sub(p.MaxQuantity)
}
