package site

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/memory"
)

func newUseCase() (*UseCase, product.Repository) {
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	uc := NewUseCase(memory.NewTxManager(store), memory.NewSiteRepository(store), productRepo, memory.NewAuditRepository(store))
	return uc, productRepo
}

func TestCreateAndUpdate(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	capacity := 500
	s, err := uc.Create(ctx, "  中央仓库 ", Fields{Capacity: &capacity}, nil)
	require.NoError(t, err)
	assert.Equal(t, "中央仓库", s.Name)
	assert.Equal(t, 500, s.Capacity)
	assert.True(t, s.IsActive)

	_, err = uc.Create(ctx, "中央仓库", Fields{}, nil)
	assert.ErrorIs(t, err, site.ErrNameDuplicate)

	inactive := false
	updated, err := uc.Update(ctx, s.ID, Fields{IsActive: &inactive}, nil)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	negative := -1
	_, err = uc.Update(ctx, s.ID, Fields{Capacity: &negative}, nil)
	assert.ErrorIs(t, err, site.ErrInvalidCapacity)

	active := true
	list, total, err := uc.List(ctx, site.ListParams{Active: &active})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestDelete_InUse(t *testing.T) {
	uc, products := newUseCase()
	ctx := context.Background()

	s, err := uc.Create(ctx, "门店", Fields{}, nil)
	require.NoError(t, err)

	p, err := product.NewProduct("头盔", "", "H-1", product.TypeMerchandise, product.LocationStore,
		decimal.NewFromInt(199), decimal.Zero, decimal.Zero, &s.ID)
	require.NoError(t, err)
	require.NoError(t, products.Create(ctx, p))

	assert.ErrorIs(t, uc.Delete(ctx, s.ID, nil), site.ErrSiteInUse)

	require.NoError(t, products.Delete(ctx, p.ID))
	require.NoError(t, uc.Delete(ctx, s.ID, nil))

	_, err = uc.Get(ctx, s.ID)
	assert.ErrorIs(t, err, site.ErrSiteNotFound)
}
