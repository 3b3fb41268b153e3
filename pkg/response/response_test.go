package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := serve(func(c *gin.Context) {
		Success(c, gin.H{"id": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, 0, body.Code)
	assert.Empty(t, body.Error)
}

func TestError(t *testing.T) {
	t.Run("业务错误携带数据", func(t *testing.T) {
		detail := map[string]string{"available": "1"}
		err := apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足").WithData(detail)

		w, body := serve(func(c *gin.Context) { Error(c, err) })

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, body.Success)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, body.Code)
		assert.Equal(t, "库存不足", body.Error)
		require.NotNil(t, body.Data)
	})

	t.Run("未知错误映射为500且不泄露细节", func(t *testing.T) {
		w, body := serve(func(c *gin.Context) { Error(c, errors.New("dial tcp: refused")) })

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, apperrors.ErrCodeInternal, body.Code)
		assert.NotContains(t, body.Error, "dial tcp")
	})

	t.Run("资源不存在", func(t *testing.T) {
		w, _ := serve(func(c *gin.Context) {
			ErrorWithCode(c, apperrors.ErrCodeProductNotFound, "商品不存在")
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPageData(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
