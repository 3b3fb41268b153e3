//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInventoryMovements 入库、出库、调拨、盘点调整
func TestInventoryMovements(t *testing.T) {
	admin := AdminToken(t)
	manager := CreateTestUser(t, admin, "manager")

	siteA := createSite(t, manager)
	siteB := createSite(t, manager)
	productID := CreateTestProduct(t, manager, "3", 0)
	url := fmt.Sprintf("%s/inventory/products/%d", BaseURL, productID)

	resp := PostJSON(t, url+"/add", map[string]interface{}{"quantity": "20", "to_site_id": siteA}, manager)
	require.True(t, resp.Success, resp.Message)

	resp = PostJSON(t, url+"/transfer", map[string]interface{}{
		"quantity": "5", "from_site_id": siteA, "to_site_id": siteB,
	}, manager)
	require.True(t, resp.Success, resp.Message)

	resp = PostJSON(t, url+"/remove", map[string]interface{}{"quantity": "4"}, manager)
	require.True(t, resp.Success, resp.Message)

	resp = PostJSON(t, url+"/adjust", map[string]interface{}{"change": "-1", "reason": "盘亏"}, manager)
	require.True(t, resp.Success, resp.Message)

	// 调拨不改变总量：20 - 4 - 1
	assert.Equal(t, "15", GetProduct(t, manager, productID).Quantity)

	resp = PostJSON(t, url+"/remove", map[string]interface{}{"quantity": "100"}, manager)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = GetJSON(t, url+"/history?limit=10", manager)
	require.True(t, resp.Success, resp.Message)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &history))
	// IN + 调拨两条 + OUT + ADJUSTMENT
	assert.Len(t, history, 5)
}

// TestInventoryRoleGating 收银员不能改库存
func TestInventoryRoleGating(t *testing.T) {
	admin := AdminToken(t)
	manager := CreateTestUser(t, admin, "manager")
	cashier := CreateTestUser(t, admin, "cashier")
	productID := CreateTestProduct(t, manager, "3", 1)

	resp := PostJSON(t, fmt.Sprintf("%s/inventory/products/%d/add", BaseURL, productID),
		map[string]interface{}{"quantity": "1"}, cashier)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func createSite(t *testing.T, token string) uint {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/storage-sites", map[string]interface{}{"name": Unique("仓库")}, token)
	require.True(t, resp.Success, "创建存储点失败: %s", resp.Message)

	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.ID
}
