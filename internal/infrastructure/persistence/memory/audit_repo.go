package memory

import (
	"context"
	"time"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
)

type auditRepository struct {
	store *Store
}

// NewAuditRepository 创建审计日志仓储
func NewAuditRepository(store *Store) audit.Repository {
	return &auditRepository{store: store}
}

func (r *auditRepository) Append(ctx context.Context, e *audit.Entry) error {
	return r.store.write(ctx, func(st *state) error {
		e.ID = st.id("audit_logs")
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		st.audits = append(st.audits, *e)
		return nil
	})
}

// List 按写入顺序倒序
func (r *auditRepository) List(ctx context.Context, params audit.ListParams) ([]*audit.Entry, int64, error) {
	var (
		out   []*audit.Entry
		total int64
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []*audit.Entry
		for i := len(st.audits) - 1; i >= 0; i-- {
			e := st.audits[i]
			if params.Action != "" && e.Action != params.Action {
				continue
			}
			if params.UserID != nil && (e.UserID == nil || *e.UserID != *params.UserID) {
				continue
			}
			matched = append(matched, &e)
		}
		total = int64(len(matched))
		out = paginate(matched, params.Page, params.PageSize)
		return nil
	})
	return out, total, err
}
