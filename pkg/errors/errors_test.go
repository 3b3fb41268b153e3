package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"成功", 0, http.StatusOK},
		{"库存不足", ErrCodeInsufficientStock, http.StatusBadRequest},
		{"空购物车", ErrCodeEmptyCart, http.StatusBadRequest},
		{"参数错误", ErrCodeInvalidParams, http.StatusBadRequest},
		{"未登录", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"无权限", ErrCodeForbidden, http.StatusForbidden},
		{"商品不存在", ErrCodeProductNotFound, http.StatusNotFound},
		{"内部错误", ErrCodeInternal, http.StatusInternalServerError},
		{"未知错误码", 12345, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestWithData_DoesNotMutateShared(t *testing.T) {
	base := New(ErrCodeInsufficientStock, "库存不足")

	withData := base.WithData(map[string]int{"available": 1})

	assert.Nil(t, base.Data, "预定义错误不应被修改")
	assert.NotNil(t, withData.Data)
	assert.True(t, errors.Is(withData, base), "副本应与原错误匹配")
}

func TestGetAppError(t *testing.T) {
	t.Run("包装链中的AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("外层: %w", ErrForbidden)

		appErr := GetAppError(wrapped)
		assert.Equal(t, ErrCodeForbidden, appErr.Code)
		assert.True(t, HasCode(wrapped, ErrCodeForbidden))
	})

	t.Run("普通错误转换为内部错误", func(t *testing.T) {
		raw := errors.New("connection reset")

		appErr := GetAppError(raw)
		require.NotNil(t, appErr)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, raw)
		assert.False(t, IsAppError(raw))
	})
}
