package mysql

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/report"
)

// sqlRecorder 记录GORM生成的SQL（DryRun下不执行，只经过Trace）
type sqlRecorder struct {
	mu   sync.Mutex
	sqls []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sqls = append(r.sqls, sql)
}

func (r *sqlRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sqls = nil
}

func (r *sqlRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sqls...)
}

// newDryRunDB 不连接数据库，只生成MySQL方言的SQL
// Scan类查询在DryRun下会返回ErrDryRunModeUnsupported，SQL仍会经过Logger，测试只检查SQL
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "inventory:inventory@tcp(127.0.0.1:3306)/inventory?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db, rec
}

func TestStockRepository_LockProductSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewStockRepository(db)

	_, _ = repo.LockProduct(context.Background(), 5)

	sqls := rec.all()
	require.Len(t, sqls, 1)
	assert.Contains(t, sqls[0], "FROM `products`")
	assert.Contains(t, sqls[0], "`products`.`deleted_at` IS NULL")
	assert.True(t, strings.HasSuffix(sqls[0], "FOR UPDATE"), "行锁: %s", sqls[0])
}

func TestStockRepository_GuardedDecrementSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewStockRepository(db)

	// DryRun下RowsAffected恒为0，会走到库存不足的分支，这里只关心生成的UPDATE
	_ = repo.DecreaseQuantity(context.Background(), 5, decimal.RequireFromString("2.5"))

	sqls := rec.all()
	require.NotEmpty(t, sqls)
	update := sqls[0]
	assert.True(t, strings.HasPrefix(update, "UPDATE `products` SET"), update)
	assert.Contains(t, update, "`quantity`=quantity - ")
	assert.Contains(t, update, "quantity >= ", "扣减必须带库存条件")
	assert.Contains(t, update, "id = 5")
}

func TestStockRepository_IncrementSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewStockRepository(db)

	_ = repo.IncreaseQuantity(context.Background(), 5, decimal.NewFromInt(3))

	sqls := rec.all()
	require.Len(t, sqls, 1)
	assert.Contains(t, sqls[0], "`quantity`=quantity + ")
	assert.NotContains(t, sqls[0], "quantity >= ")
}

func TestStockRepository_MoveToSiteSameSite(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewStockRepository(db)

	// 未命中任何行（与存储点不变时一样）也不应报商品不存在
	require.NoError(t, repo.MoveToSite(context.Background(), 5, 2))

	sqls := rec.all()
	require.Len(t, sqls, 1)
	assert.Contains(t, sqls[0], "`storage_site_id`=2")
}

func TestLedgerRepository_SignedSumSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewLedgerRepository(db)

	_, _ = repo.SignedSum(context.Background(), 9)

	sqls := rec.all()
	require.Len(t, sqls, 1)
	sql := strings.Join(strings.Fields(sqls[0]), " ")
	assert.Contains(t, sql, "FROM `inventory_transactions`")
	assert.Contains(t, sql, "WHEN 'OUT' THEN -quantity")
	assert.Contains(t, sql, "WHEN 'TRANSFER_OUT' THEN -quantity")
	assert.Contains(t, sql, "ELSE quantity END", "IN、TRANSFER_IN、ADJUSTMENT按原符号计入")
	assert.Contains(t, sql, "product_id = 9")
}

func TestLedgerRepository_AppendSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewLedgerRepository(db)

	from, to := uint(1), uint(2)
	out, in := inventory.NewTransferPair(inventory.Movement{
		ProductID:  3,
		Quantity:   decimal.NewFromInt(4),
		FromSiteID: &from,
		ToSiteID:   &to,
	})
	require.NoError(t, repo.Append(context.Background(), out, in))

	sqls := rec.all()
	require.Len(t, sqls, 1, "成对流水一条INSERT写入")
	assert.True(t, strings.HasPrefix(sqls[0], "INSERT INTO `inventory_transactions`"), sqls[0])
	assert.Contains(t, sqls[0], "'TRANSFER_OUT'")
	assert.Contains(t, sqls[0], "'TRANSFER_IN'")
}

func TestReportRepository_AggregateSQL(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	loc := time.FixedZone("UTC+8", 8*3600)
	rng := report.Range{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, loc),
		To:   time.Date(2026, 3, 2, 0, 0, 0, 0, loc),
	}

	_, _ = repo.Summary(ctx, rng)
	sqls := rec.all()
	require.NotEmpty(t, sqls)
	summary := sqls[0]
	assert.Contains(t, summary, "COUNT(*) AS sale_count, SUM(total) AS revenue")
	assert.Contains(t, summary, "FROM `sales`")
	assert.Contains(t, summary, "sales.created_at >= '2026-02-28 16:00:00'", "区间转UTC比较")
	assert.Contains(t, summary, "sales.created_at < '2026-03-01 16:00:00'")

	rec.reset()
	_, _ = repo.Bestsellers(ctx, rng, 5)
	sqls = rec.all()
	require.Len(t, sqls, 1)

	best := strings.Join(strings.Fields(sqls[0]), " ")
	assert.Contains(t, best, "JOIN sales s ON s.id = i.sale_id")
	assert.Contains(t, best, "s.created_at >= '2026-02-28 16:00:00'")
	assert.Contains(t, best, "SUM(i.quantity * i.price) AS revenue")
	assert.Contains(t, best, "GROUP BY i.product_id, p.name, p.part_number")
	assert.Contains(t, best, "ORDER BY quantity DESC,revenue DESC,i.product_id ASC")
	assert.True(t, strings.HasSuffix(best, "LIMIT 5"), best)
}
