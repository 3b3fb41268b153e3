package sale

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestNewSale(t *testing.T) {
	t.Run("计算总额", func(t *testing.T) {
		s, err := NewSale("S1", nil, Customer{}, []Item{
			{ProductID: 1, Quantity: n(2), Price: n(10)},
			{ProductID: 2, Quantity: n(1), Price: n(5)},
		})
		require.NoError(t, err)
		assert.True(t, s.Total.Equal(n(25)))
		assert.True(t, s.ItemCount().Equal(n(3)))
	})

	t.Run("空购物车", func(t *testing.T) {
		_, err := NewSale("S1", nil, Customer{}, nil)
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("数量非法", func(t *testing.T) {
		_, err := NewSale("S1", nil, Customer{}, []Item{{ProductID: 1, Quantity: n(0), Price: n(1)}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("小数位超出精度", func(t *testing.T) {
		tests := []struct {
			name    string
			qty     string
			price   string
			wantErr error
		}{
			{"数量4位小数", "3.0004", "1", ErrInvalidQuantity},
			{"单价3位小数", "3", "0.004", ErrInvalidPrice},
			{"恰好在精度内", "3.125", "0.01", nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s, err := NewSale("S1", nil, Customer{}, []Item{{
					ProductID: 1,
					Quantity:  decimal.RequireFromString(tt.qty),
					Price:     decimal.RequireFromString(tt.price),
				}})
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, "0.03125", s.Total.String(), "总额不做舍入")
			})
		}
	})

	t.Run("负单价", func(t *testing.T) {
		_, err := NewSale("S1", nil, Customer{}, []Item{{ProductID: 1, Quantity: n(1), Price: n(-1)}})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestSumByProduct(t *testing.T) {
	m := SumByProduct([]Item{
		{ProductID: 1, Quantity: n(2)},
		{ProductID: 2, Quantity: n(1)},
		{ProductID: 1, Quantity: n(3)},
	})
	assert.Len(t, m, 2)
	assert.True(t, m[1].Equal(n(5)))
	assert.True(t, m[2].Equal(n(1)))
}

func TestPricePolicy_Resolve(t *testing.T) {
	catalog := decimal.RequireFromString("9.90")
	cheaper := decimal.RequireFromString("8.00")

	price, err := PricePolicyClient.Resolve(nil, catalog)
	require.NoError(t, err)
	assert.True(t, price.Equal(catalog), "未提交单价时取目录价")

	price, err = PricePolicyClient.Resolve(&cheaper, catalog)
	require.NoError(t, err)
	assert.True(t, price.Equal(cheaper))

	_, err = PricePolicyCatalog.Resolve(&cheaper, catalog)
	assert.ErrorIs(t, err, ErrPriceMismatch)

	precise := decimal.RequireFromString("8.004")
	_, err = PricePolicyClient.Resolve(&precise, catalog)
	assert.ErrorIs(t, err, ErrInvalidPrice, "单价最多2位小数")

	same := decimal.RequireFromString("9.9")
	_, err = PricePolicyCatalog.Resolve(&same, catalog)
	assert.NoError(t, err, "数值相等即可")
}

func TestParsePricePolicy(t *testing.T) {
	p, err := ParsePricePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PricePolicyClient, p)

	p, err = ParsePricePolicy("catalog")
	require.NoError(t, err)
	assert.Equal(t, PricePolicyCatalog, p)

	_, err = ParsePricePolicy("free")
	assert.Error(t, err)
}

func TestGenerateSaleNo(t *testing.T) {
	a, b := GenerateSaleNo(), GenerateSaleNo()
	assert.Len(t, a, 1+14+8)
	assert.Equal(t, byte('S'), a[0])
	assert.NotEqual(t, a, b)
}

func TestReceipt_Render(t *testing.T) {
	s := &Sale{
		SaleNo:    "S20240101120000abcdef12",
		Total:     n(25),
		Customer:  Customer{Name: "张三", Email: "zs@example.com"},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Items: []Item{
			{ProductID: 1, Quantity: n(2), Price: n(10)},
			{ProductID: 2, Quantity: n(1), Price: n(5)},
		},
	}
	r := NewReceipt(s, map[uint]string{1: "扳手", 2: "螺丝"})

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "S20240101120000abcdef12")
	assert.Contains(t, out, "顾客: 张三")
	assert.Contains(t, out, "扳手  2 x 10.00 = 20.00")
	assert.Contains(t, out, "螺丝  1 x 5.00 = 5.00")
	assert.Contains(t, out, "合计: 25.00")
}
