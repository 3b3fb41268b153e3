package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaudit "github.com/xiebiao/inventory-pos/internal/application/audit"
	appinventory "github.com/xiebiao/inventory-pos/internal/application/inventory"
	appproduct "github.com/xiebiao/inventory-pos/internal/application/product"
	appreport "github.com/xiebiao/inventory-pos/internal/application/report"
	appsale "github.com/xiebiao/inventory-pos/internal/application/sale"
	appsite "github.com/xiebiao/inventory-pos/internal/application/site"
	appuser "github.com/xiebiao/inventory-pos/internal/application/user"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/inventory-pos/internal/interface/http/handler"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/inventory-pos/pkg/errors"
	"github.com/xiebiao/inventory-pos/pkg/jwt"
)

const (
	adminUser     = "admin"
	adminPassword = "Admin12345"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	engine *gin.Engine
}

// newTestServer 使用内存仓储组装完整路由
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	userRepo := memory.NewUserRepository(store)
	productRepo := memory.NewProductRepository(store)
	stockRepo := memory.NewStockRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	siteRepo := memory.NewSiteRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	sessions := memory.NewSessionStore()
	cache := memory.NewReportCache(0)

	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	userService := user.NewService(userRepo)

	manageUseCase := appuser.NewManageUseCase(txManager, userService, userRepo, auditRepo, logger)
	require.NoError(t, manageUseCase.Bootstrap(context.Background(), adminUser, adminPassword))

	handlers := Handlers{
		User: handler.NewUserHandler(
			appuser.NewAuthUseCase(userService, userRepo, auditRepo, jwtManager, sessions, logger),
			manageUseCase,
		),
		Product: handler.NewProductHandler(appproduct.NewUseCase(txManager, product.NewService(productRepo),
			productRepo, stockRepo, ledgerRepo, siteRepo, auditRepo, logger)),
		Site: handler.NewSiteHandler(appsite.NewUseCase(txManager, siteRepo, productRepo, auditRepo)),
		Inventory: handler.NewInventoryHandler(
			appinventory.NewStockUseCase(txManager, stockRepo, ledgerRepo, productRepo, siteRepo, auditRepo, logger),
			appinventory.NewQueryUseCase(txManager, stockRepo, ledgerRepo, productRepo),
		),
		Sale: handler.NewSaleHandler(
			appsale.NewCreateSaleUseCase(txManager, saleRepo, stockRepo, ledgerRepo, auditRepo,
				sale.PricePolicyClient, nil, cache, logger),
			appsale.NewQueryUseCase(saleRepo),
			time.UTC,
		),
		Audit:  handler.NewAuditHandler(appaudit.NewQueryUseCase(auditRepo)),
		Report: handler.NewReportHandler(appreport.NewUseCase(memory.NewReportRepository(store), stockRepo, cache, time.UTC, logger)),
	}

	engine := New(Options{Mode: gin.TestMode, ServiceName: "test"}, middleware.NewAuthMiddleware(jwtManager, sessions), handlers)
	return &testServer{engine: engine}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func (s *testServer) createUser(t *testing.T, adminToken, username, password, role string) string {
	t.Helper()
	w, _ := s.do(t, http.MethodPost, "/api/v1/users", adminToken, gin.H{
		"username": username,
		"password": password,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(t, username, password)
}

func decode(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, env.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": adminUser, "password": "Wrong12345"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidPassword, env.Code)
}

func TestRoleGating(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, adminUser, adminPassword)
	cashier := s.createUser(t, admin, "cashier01", "Cashier123", "cashier")
	manager := s.createUser(t, admin, "manager01", "Manager123", "manager")

	cases := []struct {
		name   string
		token  string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"收银员可查询商品", cashier, http.MethodGet, "/api/v1/products", nil, http.StatusOK},
		{"收银员不能创建商品", cashier, http.MethodPost, "/api/v1/products", gin.H{}, http.StatusForbidden},
		{"收银员不能入库", cashier, http.MethodPost, "/api/v1/inventory/products/1/add", gin.H{}, http.StatusForbidden},
		{"收银员不能看报表", cashier, http.MethodGet, "/api/v1/reports/sales-summary", nil, http.StatusForbidden},
		{"店长可看报表", manager, http.MethodGet, "/api/v1/reports/sales-summary", nil, http.StatusOK},
		{"店长不能看审计日志", manager, http.MethodGet, "/api/v1/audit-logs", nil, http.StatusForbidden},
		{"店长不能创建用户", manager, http.MethodPost, "/api/v1/users", gin.H{}, http.StatusForbidden},
		{"管理员可看审计日志", admin, http.MethodGet, "/api/v1/audit-logs", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := s.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestProductStockSaleFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, adminUser, adminPassword)

	// 创建商品，期初10件
	w, env := s.do(t, http.MethodPost, "/api/v1/products", admin, gin.H{
		"name":             "内六角扳手",
		"part_number":      "HX-0042",
		"type":             "accessories",
		"location":         "warehouse",
		"value":            "12.5",
		"min_quantity":     "2",
		"opening_quantity": "10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode(t, env.Data)
	assert.Equal(t, "10", p["quantity"])
	id := int(p["id"].(float64))
	base := "/api/v1/inventory/products/" + strconv.Itoa(id)

	// 销售2件，按目录价
	w, env = s.do(t, http.MethodPost, "/api/v1/sales", admin, gin.H{
		"items": []gin.H{{"product_id": id, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, env.Data)
	assert.Equal(t, "25", created["total"])
	assert.NotEmpty(t, created["sale_no"])

	// 超量销售整单失败，返回库存明细
	w, env = s.do(t, http.MethodPost, "/api/v1/sales", admin, gin.H{
		"items": []gin.H{{"product_id": id, "quantity": 100}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, env.Code)
	shortage := decode(t, env.Data)
	assert.Equal(t, "8", shortage["available"])
	assert.Equal(t, "100", shortage["requested"])

	// 出库超量同样400
	w, env = s.do(t, http.MethodPost, base+"/remove", admin, gin.H{"quantity": "9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, env.Code)

	// 盘点调整
	w, env = s.do(t, http.MethodPost, base+"/adjust", admin, gin.H{"change": "-1", "reason": "破损"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved := decode(t, env.Data)
	assert.Equal(t, "7", moved["product"].(map[string]interface{})["quantity"])

	// 流水：期初IN、销售OUT、调整ADJUSTMENT
	w, env = s.do(t, http.MethodGet, base+"/history", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 3)
	assert.Equal(t, "ADJUSTMENT", history[0]["transaction_type"])
	assert.Equal(t, "IN", history[2]["transaction_type"])

	w, env = s.do(t, http.MethodGet, base+"/reconcile", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, env.Data)["consistent"])

	// 销售单详情带明细
	w, env = s.do(t, http.MethodGet, "/api/v1/sales/"+strconv.Itoa(int(created["id"].(float64))), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, env.Data)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "内六角扳手", items[0].(map[string]interface{})["product_name"])
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, adminUser, adminPassword)

	w, env := s.do(t, http.MethodGet, "/api/v1/products/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/products/999", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/v1/sales", admin, gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = s.do(t, http.MethodGet, "/api/v1/reports/sales-timeseries?bucket=week", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, adminUser, adminPassword)

	w, _ := s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := s.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, env.Code)
}

func TestExportSales(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, adminUser, adminPassword)

	w, _ := s.do(t, http.MethodGet, "/api/v1/reports/sales/export?from=2024-03-01&to=2024-03-31", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales_20240301_20240331.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
