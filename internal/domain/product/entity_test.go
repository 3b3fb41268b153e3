package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		loc     Location
		value   string
		min     string
		max     string
		wantErr error
	}{
		{"合法商品", TypeAccessories, LocationStore, "9.90", "2", "20", nil},
		{"不设上限", TypeWorkshop, LocationWarehouse, "0", "0", "0", nil},
		{"非法类别", Type("food"), LocationStore, "1", "0", "0", ErrInvalidType},
		{"非法位置", TypeMerchandise, Location("shelf"), "1", "0", "0", ErrInvalidLocation},
		{"负单价", TypeMerchandise, LocationStore, "-1", "0", "0", ErrInvalidValue},
		{"上限小于下限", TypeMerchandise, LocationStore, "1", "10", "5", ErrInvalidThreshold},
		{"单价超过2位小数", TypeMerchandise, LocationStore, "9.999", "0", "0", ErrInvalidValue},
		{"下限超过3位小数", TypeMerchandise, LocationStore, "1", "0.0001", "0", ErrInvalidThreshold},
		{"上限超过3位小数", TypeMerchandise, LocationStore, "1", "0", "10.0005", ErrInvalidThreshold},
		{"末尾0不计入小数位", TypeMerchandise, LocationStore, "9.900000", "1.5000", "20.000000", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct("扳手", "", "PN-1", tt.typ, tt.loc, d(tt.value), d(tt.min), d(tt.max), nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.Quantity.IsZero(), "新商品库存应为0")
		})
	}
}

func TestProduct_Apply(t *testing.T) {
	p, err := NewProduct("扳手", "", "PN-1", TypeAccessories, LocationStore, d("10"), d("1"), d("0"), nil)
	require.NoError(t, err)
	p.Quantity = d("7")

	t.Run("修改名称与单价", func(t *testing.T) {
		name := "  套筒扳手 "
		value := d("12.5")
		require.NoError(t, p.Apply(Changes{Name: &name, Value: &value}))
		assert.Equal(t, "套筒扳手", p.Name)
		assert.True(t, p.Value.Equal(d("12.5")))
		assert.True(t, p.Quantity.Equal(d("7")), "修改属性不应影响库存")
	})

	t.Run("非法修改不生效", func(t *testing.T) {
		typ := Type("bad")
		err := p.Apply(Changes{Type: &typ})
		assert.ErrorIs(t, err, ErrInvalidType)
		assert.Equal(t, TypeAccessories, p.Type)
	})
}

func TestFitsScale(t *testing.T) {
	tests := []struct {
		value string
		scale int32
		want  bool
	}{
		{"12", 2, true},
		{"12.5", 2, true},
		{"12.50", 2, true},
		{"12.5000", 2, true},
		{"12.505", 2, false},
		{"0.004", 2, false},
		{"3.0004", 3, false},
		{"-1.125", 3, true},
		{"-1.1255", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, FitsScale(d(tt.value), tt.scale))
		})
	}
}

func TestProduct_Apply_RejectsExtraPrecision(t *testing.T) {
	p, err := NewProduct("扳手", "", "PN-1", TypeAccessories, LocationStore, d("10"), d("1"), d("0"), nil)
	require.NoError(t, err)

	value := d("10.001")
	assert.ErrorIs(t, p.Apply(Changes{Value: &value}), ErrInvalidValue)
	assert.True(t, p.Value.Equal(d("10")), "校验失败不应修改商品")
}

func TestProduct_StockLevels(t *testing.T) {
	p := &Product{Quantity: d("3"), MinQuantity: d("5"), MaxQuantity: d("0")}
	assert.True(t, p.IsLowStock())
	assert.False(t, p.IsOverstock(), "上限为0表示不限")
	assert.True(t, p.Shortage().Equal(d("2")))

	p = &Product{Quantity: d("30"), MinQuantity: d("5"), MaxQuantity: d("20")}
	assert.False(t, p.IsLowStock())
	assert.True(t, p.IsOverstock())
	assert.True(t, p.Excess().Equal(d("10")))
	assert.True(t, p.Has(d("30")))
	assert.False(t, p.Has(d("30.001")))
}
