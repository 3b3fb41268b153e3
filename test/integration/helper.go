//go:build integration

// Package integration 针对运行中服务的端到端测试
//
// 运行方式：
//
//	docker compose up -d mysql redis
//	go run ./cmd/api
//	go test -tags=integration -v ./test/integration/...
//
// 使用配置中的初始管理员登录（可通过INVENTORY_ADMIN_USERNAME/INVENTORY_ADMIN_PASSWORD覆盖）
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL API基础URL，INVENTORY_BASE_URL可覆盖
var BaseURL = envOr("INVENTORY_BASE_URL", "http://localhost:8080/api/v1")

var seq atomic.Int64

// Response 统一响应结构
type Response struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Status  int             `json:"-"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProductData 商品响应数据
type ProductData struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Value    string `json:"value"`
}

// SaleData 销售单响应数据
type SaleData struct {
	ID     uint   `json:"id"`
	SaleNo string `json:"sale_no"`
	Total  string `json:"total"`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Do 发送请求并解析统一响应
func Do(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	result.Status = resp.StatusCode
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return Do(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return Do(t, http.MethodGet, url, nil, token)
}

// Unique 生成测试用的唯一后缀，避免重复运行时唯一键冲突
func Unique(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano()%1_000_000_000, seq.Add(1))
}

// Login 登录并返回Access Token
func Login(t *testing.T, username, password string) string {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.True(t, resp.Success, "登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.AccessToken
}

// AdminToken 初始管理员Token
func AdminToken(t *testing.T) string {
	t.Helper()
	return Login(t,
		envOr("INVENTORY_ADMIN_USERNAME", "admin"),
		envOr("INVENTORY_ADMIN_PASSWORD", "Admin12345"),
	)
}

// CreateTestUser 管理员创建指定角色的用户并登录
func CreateTestUser(t *testing.T, adminToken, role string) string {
	t.Helper()
	username := Unique(role)
	resp := PostJSON(t, BaseURL+"/users", map[string]string{
		"username": username,
		"password": "Test12345",
		"role":     role,
	}, adminToken)
	require.True(t, resp.Success, "创建用户失败: %s", resp.Message)

	return Login(t, username, "Test12345")
}

// CreateTestProduct 创建带期初库存的商品，返回商品ID
func CreateTestProduct(t *testing.T, token string, value string, opening int) uint {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/products", map[string]interface{}{
		"name":             Unique("测试商品"),
		"part_number":      Unique("PN"),
		"type":             "merchandise",
		"location":         "store",
		"value":            value,
		"min_quantity":     "1",
		"opening_quantity": fmt.Sprint(opening),
	}, token)
	require.True(t, resp.Success, "创建商品失败: %s", resp.Message)

	var data ProductData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.ID
}

// GetProduct 查询商品
func GetProduct(t *testing.T, token string, id uint) ProductData {
	t.Helper()
	resp := GetJSON(t, fmt.Sprintf("%s/products/%d", BaseURL, id), token)
	require.True(t, resp.Success, "查询商品失败: %s", resp.Message)

	var data ProductData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

// SaleRequest 单行销售请求
func SaleRequest(productID uint, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": fmt.Sprint(quantity)},
		},
	}
}
