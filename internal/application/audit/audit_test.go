package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/memory"
)

func TestList(t *testing.T) {
	repo := memory.NewAuditRepository(memory.NewStore())
	uc := NewQueryUseCase(repo)
	ctx := context.Background()

	alice, bob := uint(1), uint(2)
	require.NoError(t, audit.Record(ctx, repo, &alice, audit.ActionLogin, map[string]string{"ip": "10.0.0.1"}))
	require.NoError(t, audit.Record(ctx, repo, &alice, audit.ActionSaleCreate, map[string]string{"sale_no": "S1"}))
	require.NoError(t, audit.Record(ctx, repo, &bob, audit.ActionSaleCreate, map[string]string{"sale_no": "S2"}))

	t.Run("全部，最新在前", func(t *testing.T) {
		list, total, err := uc.List(ctx, audit.ListParams{Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 3)
		assert.JSONEq(t, `{"sale_no":"S2"}`, list[0].Details)
	})

	t.Run("按动作", func(t *testing.T) {
		list, total, err := uc.List(ctx, audit.ListParams{Page: 1, PageSize: 20, Action: audit.ActionSaleCreate})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("按操作人", func(t *testing.T) {
		list, total, err := uc.List(ctx, audit.ListParams{Page: 1, PageSize: 20, UserID: &alice})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, e := range list {
			assert.Equal(t, alice, *e.UserID)
		}
	})

	t.Run("分页", func(t *testing.T) {
		list, total, err := uc.List(ctx, audit.ListParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 1)
		assert.Equal(t, audit.ActionLogin, list[0].Action)
	})
}
