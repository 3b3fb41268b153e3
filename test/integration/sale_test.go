//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaleCreate 收银下单
func TestSaleCreate(t *testing.T) {
	admin := AdminToken(t)
	manager := CreateTestUser(t, admin, "manager")
	cashier := CreateTestUser(t, admin, "cashier")

	t.Run("正常下单扣减库存", func(t *testing.T) {
		productID := CreateTestProduct(t, manager, "12.50", 10)

		resp := PostJSON(t, BaseURL+"/sales", SaleRequest(productID, 3), cashier)
		require.True(t, resp.Success, "下单失败: %s", resp.Message)
		assert.Equal(t, http.StatusCreated, resp.Status)

		var data SaleData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEmpty(t, data.SaleNo)
		assert.Equal(t, "37.5", data.Total)

		assert.Equal(t, "7", GetProduct(t, manager, productID).Quantity)
	})

	t.Run("库存不足整单失败", func(t *testing.T) {
		productID := CreateTestProduct(t, manager, "5", 5)
		other := CreateTestProduct(t, manager, "5", 5)

		req := map[string]interface{}{
			"items": []map[string]interface{}{
				{"product_id": other, "quantity": "2"},
				{"product_id": productID, "quantity": "6"},
			},
		}
		resp := PostJSON(t, BaseURL+"/sales", req, cashier)
		assert.False(t, resp.Success)
		assert.Equal(t, http.StatusBadRequest, resp.Status)

		// 第一行也不能被扣减
		assert.Equal(t, "5", GetProduct(t, manager, other).Quantity)
		assert.Equal(t, "5", GetProduct(t, manager, productID).Quantity)
	})

	t.Run("恰好用完库存", func(t *testing.T) {
		productID := CreateTestProduct(t, manager, "1", 4)

		resp := PostJSON(t, BaseURL+"/sales", SaleRequest(productID, 4), cashier)
		require.True(t, resp.Success, resp.Message)
		assert.Equal(t, "0", GetProduct(t, manager, productID).Quantity)
	})

	t.Run("未登录不能下单", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/sales", SaleRequest(1, 1), "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})
}

// TestSaleConcurrency 并发下单不超卖
//
// 场景：库存10，20个goroutine同时各买1件
// 预期：恰好10个成功，库存归零，流水合计与库存一致
func TestSaleConcurrency(t *testing.T) {
	admin := AdminToken(t)
	manager := CreateTestUser(t, admin, "manager")
	cashier := CreateTestUser(t, admin, "cashier")

	productID := CreateTestProduct(t, manager, "9.90", 10)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successCount int
		failCount    int
	)

	const concurrency = 20
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := PostJSON(t, BaseURL+"/sales", SaleRequest(productID, 1), cashier)

			mu.Lock()
			defer mu.Unlock()
			if resp.Success {
				successCount++
			} else {
				failCount++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, successCount, "成功数量应等于库存")
	assert.Equal(t, 10, failCount)
	assert.Equal(t, "0", GetProduct(t, manager, productID).Quantity)

	resp := GetJSON(t, fmt.Sprintf("%s/inventory/products/%d/reconcile", BaseURL, productID), manager)
	require.True(t, resp.Success, resp.Message)

	var rec struct {
		Consistent bool `json:"consistent"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &rec))
	assert.True(t, rec.Consistent, "流水合计应与库存一致")
}
