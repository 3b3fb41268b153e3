package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/application"
	appaudit "github.com/xiebiao/inventory-pos/internal/application/audit"
	appinventory "github.com/xiebiao/inventory-pos/internal/application/inventory"
	appproduct "github.com/xiebiao/inventory-pos/internal/application/product"
	appreport "github.com/xiebiao/inventory-pos/internal/application/report"
	appsale "github.com/xiebiao/inventory-pos/internal/application/sale"
	appsite "github.com/xiebiao/inventory-pos/internal/application/site"
	appuser "github.com/xiebiao/inventory-pos/internal/application/user"
	"github.com/xiebiao/inventory-pos/internal/domain/audit"
	"github.com/xiebiao/inventory-pos/internal/domain/inventory"
	"github.com/xiebiao/inventory-pos/internal/domain/product"
	"github.com/xiebiao/inventory-pos/internal/domain/report"
	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/internal/domain/site"
	"github.com/xiebiao/inventory-pos/internal/domain/user"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/config"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/notify"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/inventory-pos/internal/interface/http/handler"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/internal/interface/http/router"
	"github.com/xiebiao/inventory-pos/pkg/jwt"
	"github.com/xiebiao/inventory-pos/pkg/mq"
)

// reportCache 报表缓存：读写 + 销售后失效
type reportCache interface {
	appreport.Cache
	appsale.CacheInvalidator
}

// storage 一组仓储实现（MySQL+Redis 或 内存）
type storage struct {
	txManager   application.TxManager
	userRepo    user.Repository
	productRepo product.Repository
	stockRepo   inventory.StockRepository
	ledgerRepo  inventory.LedgerRepository
	siteRepo    site.Repository
	saleRepo    sale.Repository
	auditRepo   audit.Repository
	reportRepo  report.Repository
	sessions    appuser.SessionStore
	cache       reportCache
}

// app 组装完成的应用
type app struct {
	engine     *gin.Engine
	manage     *appuser.ManageUseCase
	dispatcher *notify.Dispatcher
}

// newApp 手动依赖注入
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router
// 返回的cleanup按创建的相反顺序释放资源
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	policy, err := sale.ParsePricePolicy(cfg.Sale.PricePolicy)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Report.Location()
	if err != nil {
		return nil, nil, err
	}

	st, closeStorage, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeStorage)

	sender, closeSender, err := newReceiptSender(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeSender)

	dispatcher := notify.NewDispatcher(sender, notify.Options{
		Workers:     cfg.Receipt.Workers,
		QueueSize:   cfg.Receipt.QueueSize,
		SendTimeout: cfg.Receipt.SendTimeout,
	}, logger)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	// 领域层
	userService := user.NewService(st.userRepo)
	productService := product.NewService(st.productRepo)

	// 应用层
	authUseCase := appuser.NewAuthUseCase(userService, st.userRepo, st.auditRepo, jwtManager, st.sessions, logger)
	manageUseCase := appuser.NewManageUseCase(st.txManager, userService, st.userRepo, st.auditRepo, logger)
	productUseCase := appproduct.NewUseCase(st.txManager, productService, st.productRepo, st.stockRepo,
		st.ledgerRepo, st.siteRepo, st.auditRepo, logger)
	siteUseCase := appsite.NewUseCase(st.txManager, st.siteRepo, st.productRepo, st.auditRepo)
	stockUseCase := appinventory.NewStockUseCase(st.txManager, st.stockRepo, st.ledgerRepo, st.productRepo,
		st.siteRepo, st.auditRepo, logger)
	inventoryQuery := appinventory.NewQueryUseCase(st.txManager, st.stockRepo, st.ledgerRepo, st.productRepo)
	createSale := appsale.NewCreateSaleUseCase(st.txManager, st.saleRepo, st.stockRepo, st.ledgerRepo,
		st.auditRepo, policy, dispatcher, st.cache, logger)
	saleQuery := appsale.NewQueryUseCase(st.saleRepo)
	auditQuery := appaudit.NewQueryUseCase(st.auditRepo)
	reportUseCase := appreport.NewUseCase(st.reportRepo, st.stockRepo, st.cache, loc, logger)

	// 接口层
	handlers := router.Handlers{
		User:      handler.NewUserHandler(authUseCase, manageUseCase),
		Product:   handler.NewProductHandler(productUseCase),
		Site:      handler.NewSiteHandler(siteUseCase),
		Inventory: handler.NewInventoryHandler(stockUseCase, inventoryQuery),
		Sale:      handler.NewSaleHandler(createSale, saleQuery, loc),
		Audit:     handler.NewAuditHandler(auditQuery),
		Report:    handler.NewReportHandler(reportUseCase),
	}
	engine := router.New(router.Options{
		Mode:        cfg.Server.Mode,
		ServiceName: serviceName,
		Swagger:     cfg.Server.EnableSwagger,
		Logger:      logger,
	}, middleware.NewAuthMiddleware(jwtManager, st.sessions), handlers)

	return &app{
		engine:     engine,
		manage:     manageUseCase,
		dispatcher: dispatcher,
	}, cleanup, nil
}

// newStorage 按database.driver选择存储实现
// memory：单进程演示/测试用，重启后数据丢失，会话与缓存也在内存中
func newStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, func(), error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("使用内存存储，重启后数据将丢失")
		store := memory.NewStore()
		return &storage{
			txManager:   memory.NewTxManager(store),
			userRepo:    memory.NewUserRepository(store),
			productRepo: memory.NewProductRepository(store),
			stockRepo:   memory.NewStockRepository(store),
			ledgerRepo:  memory.NewLedgerRepository(store),
			siteRepo:    memory.NewSiteRepository(store),
			saleRepo:    memory.NewSaleRepository(store),
			auditRepo:   memory.NewAuditRepository(store),
			reportRepo:  memory.NewReportRepository(store),
			sessions:    memory.NewSessionStore(),
			cache:       memory.NewReportCache(cfg.Report.CacheTTL),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化数据库失败: %w", err)
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		_ = mysql.Close(db)
		return nil, nil, fmt.Errorf("初始化Redis失败: %w", err)
	}

	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("关闭Redis失败", zap.Error(err))
		}
		if err := mysql.Close(db); err != nil {
			logger.Warn("关闭数据库失败", zap.Error(err))
		}
	}

	return &storage{
		txManager:   mysql.NewTxManager(db),
		userRepo:    mysql.NewUserRepository(db),
		productRepo: mysql.NewProductRepository(db),
		stockRepo:   mysql.NewStockRepository(db),
		ledgerRepo:  mysql.NewLedgerRepository(db),
		siteRepo:    mysql.NewSiteRepository(db),
		saleRepo:    mysql.NewSaleRepository(db),
		auditRepo:   mysql.NewAuditRepository(db),
		reportRepo:  mysql.NewReportRepository(db),
		sessions:    redis.NewSessionStore(redisClient),
		cache:       redis.NewReportCache(redisClient, cfg.Report.CacheTTL),
	}, closeFn, nil
}

// newReceiptSender 启用RabbitMQ时发布小票事件，否则写日志
func newReceiptSender(cfg *config.Config, logger *zap.Logger) (notify.Sender, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return notify.NewLogSender(logger), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ExchangeType, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化RabbitMQ失败: %w", err)
	}
	closeFn := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭RabbitMQ失败", zap.Error(err))
		}
	}
	return notify.NewMQSender(publisher, cfg.RabbitMQ.ReceiptKey, logger), closeFn, nil
}
