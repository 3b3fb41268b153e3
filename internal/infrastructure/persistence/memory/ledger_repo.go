package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
)

type ledgerRepository struct {
	store *Store
}

// NewLedgerRepository 创建库存流水仓储
func NewLedgerRepository(store *Store) inventory.LedgerRepository {
	return &ledgerRepository{store: store}
}

func (r *ledgerRepository) Append(ctx context.Context, txs ...*inventory.Transaction) error {
	return r.store.write(ctx, func(st *state) error {
		for _, tx := range txs {
			tx.ID = st.id("inventory_transactions")
			if tx.CreatedAt.IsZero() {
				tx.CreatedAt = time.Now()
			}
			st.ledger = append(st.ledger, *tx)
		}
		return nil
	})
}

func (r *ledgerRepository) ListByProduct(ctx context.Context, productID uint, limit int) ([]*inventory.TransactionView, error) {
	var out []*inventory.TransactionView
	err := r.store.read(ctx, func(st *state) error {
		for _, tx := range st.ledger {
			if tx.ProductID != productID {
				continue
			}
			view := &inventory.TransactionView{Transaction: tx}
			if tx.FromSiteID != nil {
				view.FromSiteName = st.sites[*tx.FromSiteID].Name
			}
			if tx.ToSiteID != nil {
				view.ToSiteName = st.sites[*tx.ToSiteID].Name
			}
			if tx.UserID != nil {
				for _, u := range st.users {
					if u.ID == *tx.UserID {
						view.Username = u.Username
						break
					}
				}
			}
			out = append(out, view)
		}

		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r *ledgerRepository) SignedSum(ctx context.Context, productID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.store.read(ctx, func(st *state) error {
		for i := range st.ledger {
			if st.ledger[i].ProductID == productID {
				sum = sum.Add(st.ledger[i].SignedQuantity())
			}
		}
		return nil
	})
	return sum, err
}
