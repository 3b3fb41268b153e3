package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/inventory-pos/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 按配置自动迁移表结构（AutoMigrate）
// 5. 所有时间以UTC写入，报表按report.timezone分桶
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 连接池是唯一的背压手段：连接耗尽后请求排队
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// 注意：生产环境应使用版本化的迁移脚本
	if cfg.Database.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// Close 关闭连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// autoMigrate 自动迁移表结构
// 顺序按外键依赖排列
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&StorageSiteModel{},
		&ProductModel{},
		&InventoryTransactionModel{},
		&SaleModel{},
		&SaleItemModel{},
		&AuditLogModel{},
	)
}

// UserModel GORM用户模型
// domain/user/entity.go是领域实体，不依赖GORM；Repository负责两者之间的转换
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:32;not null;comment:用户名"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role         string    `gorm:"type:enum('admin','manager','cashier');not null;default:'cashier';comment:角色"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// StorageSiteModel 存储点
type StorageSiteModel struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"uniqueIndex;size:100;not null;comment:名称"`
	Address      string    `gorm:"size:255;comment:地址"`
	ContactName  string    `gorm:"size:100;comment:联系人"`
	ContactPhone string    `gorm:"size:50;comment:联系电话"`
	ContactEmail string    `gorm:"size:100;comment:联系邮箱"`
	Capacity     int       `gorm:"not null;default:0;comment:容量"`
	IsActive     bool      `gorm:"index;not null;default:true;comment:是否启用"`
	Notes        string    `gorm:"type:text;comment:备注"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (StorageSiteModel) TableName() string {
	return "storage_sites"
}

// ProductModel 商品
// 设计说明：
// 1. quantity、value使用DECIMAL，避免浮点误差
// 2. type、location使用ENUM，存储层保证封闭枚举
// 3. part_number唯一索引（软删除的商品仍占用零件号）
// 4. 存储点删除时storage_site_id置空
type ProductModel struct {
	ID            uint              `gorm:"primaryKey"`
	Name          string            `gorm:"index;size:200;not null;comment:名称"`
	Description   string            `gorm:"type:text;comment:描述"`
	Quantity      decimal.Decimal   `gorm:"type:decimal(14,3);not null;default:0;comment:当前库存（由流水维护）"`
	Value         decimal.Decimal   `gorm:"type:decimal(14,2);not null;default:0;comment:单价"`
	PartNumber    string            `gorm:"uniqueIndex;size:64;not null;comment:零件号"`
	Type          string            `gorm:"type:enum('accessories','merchandise','workshop');not null;comment:类别"`
	Location      string            `gorm:"type:enum('warehouse','store');not null;comment:位置"`
	MinQuantity   decimal.Decimal   `gorm:"type:decimal(14,3);not null;default:0;comment:最低库存"`
	MaxQuantity   decimal.Decimal   `gorm:"type:decimal(14,3);not null;default:0;comment:最高库存（0不限）"`
	StorageSiteID *uint             `gorm:"index;comment:当前存储点"`
	StorageSite   *StorageSiteModel `gorm:"foreignKey:StorageSiteID;constraint:OnDelete:SET NULL"`
	CreatedAt     time.Time         `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time         `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt    `gorm:"index;comment:删除时间（软删除）"`
}

func (ProductModel) TableName() string {
	return "products"
}

// InventoryTransactionModel 库存流水（只追加）
// 商品物理删除时流水级联删除；存储点、用户删除时置空
type InventoryTransactionModel struct {
	ID                uint              `gorm:"primaryKey"`
	ProductID         uint              `gorm:"index:idx_product_created,priority:1;not null;comment:商品ID"`
	Product           *ProductModel     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	TransactionType   string            `gorm:"type:enum('IN','OUT','TRANSFER_IN','TRANSFER_OUT','ADJUSTMENT');not null;comment:流水类型"`
	Quantity          decimal.Decimal   `gorm:"type:decimal(14,3);not null;comment:数量（ADJUSTMENT带符号）"`
	FromStorageSiteID *uint             `gorm:"comment:调出存储点"`
	FromStorageSite   *StorageSiteModel `gorm:"foreignKey:FromStorageSiteID;constraint:OnDelete:SET NULL"`
	ToStorageSiteID   *uint             `gorm:"comment:调入存储点"`
	ToStorageSite     *StorageSiteModel `gorm:"foreignKey:ToStorageSiteID;constraint:OnDelete:SET NULL"`
	ReferenceNumber   string            `gorm:"index;size:64;comment:关联单号"`
	Notes             string            `gorm:"type:text;comment:备注"`
	UserID            *uint             `gorm:"index;comment:操作人"`
	User              *UserModel        `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	CreatedAt         time.Time         `gorm:"index:idx_product_created,priority:2;comment:创建时间"`
}

func (InventoryTransactionModel) TableName() string {
	return "inventory_transactions"
}

// SaleModel 销售单
type SaleModel struct {
	ID             uint            `gorm:"primaryKey"`
	SaleNo         string          `gorm:"uniqueIndex;size:32;not null;comment:销售单号"`
	UserID         *uint           `gorm:"index;comment:收银员"`
	User           *UserModel      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Total          decimal.Decimal `gorm:"type:decimal(19,5);not null;comment:总额（单价2位×数量3位，不舍入）"`
	CustomerName   string          `gorm:"size:100;comment:顾客姓名"`
	CustomerEmail  string          `gorm:"size:100;comment:顾客邮箱"`
	CustomerNumber string          `gorm:"size:50;comment:顾客电话"`
	Items          []SaleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"index;comment:创建时间"`
}

func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel 销售明细
// Price是成交时的单价快照；商品不级联删除（商品是软删除）
type SaleItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"index;not null;comment:销售单ID"`
	ProductID uint            `gorm:"index;not null;comment:商品ID"`
	Product   *ProductModel   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,3);not null;comment:数量"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null;comment:成交单价"`
}

func (SaleItemModel) TableName() string {
	return "sale_items"
}

// AuditLogModel 审计日志
type AuditLogModel struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    *uint      `gorm:"index;comment:操作人"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Action    string     `gorm:"index;size:64;not null;comment:动作"`
	Details   string     `gorm:"type:text;comment:详情（JSON）"`
	CreatedAt time.Time  `gorm:"index;comment:创建时间"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}
