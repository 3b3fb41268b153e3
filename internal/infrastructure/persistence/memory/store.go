// Package memory 内存存储实现
//
// 与MySQL实现遵守相同的仓储契约，用于本地开发（database.driver=memory）和用例测试。
// 并发模型：一把全局互斥锁。Transaction在整个回调期间持有该锁，
// 效果等同于所有行都被FOR UPDATE锁定；出错时恢复到事务开始前的快照。
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
)

type productRow struct {
	product.Product
	deleted bool
}

type state struct {
	products map[uint]productRow
	sites    map[uint]site.Site
	ledger   []inventory.Transaction
	sales    []sale.Sale
	audits   []audit.Entry
	users    []user.User
	nextID   map[string]uint
}

func newState() *state {
	return &state{
		products: make(map[uint]productRow),
		sites:    make(map[uint]site.Site),
		nextID:   make(map[string]uint),
	}
}

// clone 深拷贝（切片与map重新分配；行内指针字段从不原地修改，可共享）
func (st *state) clone() *state {
	cp := &state{
		products: make(map[uint]productRow, len(st.products)),
		sites:    make(map[uint]site.Site, len(st.sites)),
		ledger:   append([]inventory.Transaction(nil), st.ledger...),
		sales:    make([]sale.Sale, len(st.sales)),
		audits:   append([]audit.Entry(nil), st.audits...),
		users:    append([]user.User(nil), st.users...),
		nextID:   make(map[string]uint, len(st.nextID)),
	}
	for k, v := range st.products {
		cp.products[k] = v
	}
	for k, v := range st.sites {
		cp.sites[k] = v
	}
	for i, s := range st.sales {
		s.Items = append([]sale.Item(nil), s.Items...)
		cp.sales[i] = s
	}
	for k, v := range st.nextID {
		cp.nextID[k] = v
	}
	return cp
}

func (st *state) id(table string) uint {
	st.nextID[table]++
	return st.nextID[table]
}

// Store 内存数据库
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore 创建空的内存数据库
func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

// TxManager 内存事务管理器
type TxManager struct {
	store *Store
}

// NewTxManager 创建事务管理器
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Transaction 执行事务
// 已在事务中时直接复用外层事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s := m.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	committed := false
	defer func() {
		if !committed {
			s.st = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// read 在锁内执行只读访问（事务中不重复加锁）
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// write 非事务写入同样在锁内完成，单条语句原子
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.read(ctx, fn)
}

// paginate 内存分页，page从1开始
func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
