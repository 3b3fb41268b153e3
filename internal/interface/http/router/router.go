// Package router 组装HTTP路由
//
// 权限分级（admin ⊇ manager ⊇ cashier）：
//   - cashier：销售、查询
//   - manager：+ 库存变动、商品与存储点维护、报表
//   - admin：+ 用户管理、审计日志
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/user"
	"github.com/xiebiao/inventory-pos/internal/interface/http/handler"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Site      *handler.SiteHandler
	Inventory *handler.InventoryHandler
	Sale      *handler.SaleHandler
	Audit     *handler.AuditHandler
	Report    *handler.ReportHandler
}

// Options 路由选项
type Options struct {
	Mode        string // debug / release / test
	ServiceName string
	Swagger     bool // 生产环境可关闭
	Logger      *zap.Logger
}

// New 创建Gin引擎并注册所有路由
func New(opts Options, auth *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Tracing(opts.ServiceName),
		middleware.Logger(opts.Logger),
		middleware.Metrics(),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// 认证（login、refresh公开）
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.User.Login)
		authGroup.POST("/refresh", h.User.Refresh)
		authGroup.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())

	manager := middleware.RequireRole(user.RoleManager)
	admin := middleware.RequireRole(user.RoleAdmin)

	users := authorized.Group("/users")
	{
		users.GET("/me", h.User.Me)
		users.POST("", admin, h.User.Create)
		users.GET("", admin, h.User.List)
	}

	products := authorized.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", manager, h.Product.Create)
		products.PUT("/:id", manager, h.Product.Update)
		products.DELETE("/:id", manager, h.Product.Delete)
	}

	sites := authorized.Group("/storage-sites")
	{
		sites.GET("", h.Site.List)
		sites.GET("/:id", h.Site.Get)
		sites.POST("", manager, h.Site.Create)
		sites.PUT("/:id", manager, h.Site.Update)
		sites.DELETE("/:id", manager, h.Site.Delete)
	}

	inventory := authorized.Group("/inventory")
	{
		inventory.POST("/products/:id/add", manager, h.Inventory.Add)
		inventory.POST("/products/:id/remove", manager, h.Inventory.Remove)
		inventory.POST("/products/:id/transfer", manager, h.Inventory.Transfer)
		inventory.POST("/products/:id/adjust", manager, h.Inventory.Adjust)
		inventory.GET("/products/:id/history", h.Inventory.History)
		inventory.GET("/products/:id/reconcile", h.Inventory.Reconcile)
		inventory.GET("/alerts/low-stock", h.Inventory.LowStock)
		inventory.GET("/alerts/overstock", h.Inventory.Overstock)
	}

	sales := authorized.Group("/sales")
	{
		sales.POST("", h.Sale.CreateSale)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
	}

	authorized.GET("/audit-logs", admin, h.Audit.List)

	reports := authorized.Group("/reports", manager)
	{
		reports.GET("/sales-summary", h.Report.SalesSummary)
		reports.GET("/bestsellers", h.Report.Bestsellers)
		reports.GET("/low-stock", h.Report.LowStock)
		reports.GET("/sales-timeseries", h.Report.SalesTimeSeries)
		reports.GET("/sales/export", h.Report.ExportSales)
	}

	return r
}
