//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件（MySQL + Redis部署）
//
// 生成：wire gen ./cmd/api
// main.go中的newApp是等价的手动装配，额外支持database.driver=memory；
// 两者的Provider保持一致，修改构造函数签名时需同步这里。

package main

import (
	"context"
	"time"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/inventory-pos/internal/application"
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
	"github.com/xiebiao/inventory-pos/internal/infrastructure/config"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/notify"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/inventory-pos/internal/interface/http/handler"
	"github.com/xiebiao/inventory-pos/internal/interface/http/middleware"
	"github.com/xiebiao/inventory-pos/internal/interface/http/router"
	"github.com/xiebiao/inventory-pos/pkg/jwt"
)

// infrastructureSet 数据库、Redis、小票投递
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideReportCache,
	newReceiptSender,
	provideDispatcher,
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	wire.Bind(new(appreport.Cache), new(*redis.ReportCache)),
	wire.Bind(new(appsale.CacheInvalidator), new(*redis.ReportCache)),
	wire.Bind(new(appsale.ReceiptQueue), new(*notify.Dispatcher)),
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewTxManager,
	wire.Bind(new(application.TxManager), new(*mysql.TxManager)),
	mysql.NewUserRepository,
	mysql.NewProductRepository,
	mysql.NewStockRepository,
	mysql.NewLedgerRepository,
	mysql.NewSiteRepository,
	mysql.NewSaleRepository,
	mysql.NewAuditRepository,
	mysql.NewReportRepository,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	product.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	providePricePolicy,
	provideReportLocation,
	appuser.NewAuthUseCase,
	appuser.NewManageUseCase,
	appproduct.NewUseCase,
	appsite.NewUseCase,
	appinventory.NewStockUseCase,
	appinventory.NewQueryUseCase,
	appsale.NewCreateSaleUseCase,
	appsale.NewQueryUseCase,
	appaudit.NewQueryUseCase,
	appreport.NewUseCase,
)

// interfaceSet 处理器、中间件、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewProductHandler,
	handler.NewSiteHandler,
	handler.NewInventoryHandler,
	handler.NewSaleHandler,
	handler.NewAuditHandler,
	handler.NewReportHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouterOptions,
	router.New,
)

func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = mysql.Close(db) }, nil
}

func provideRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideReportCache(client *goredis.Client, cfg *config.Config) *redis.ReportCache {
	return redis.NewReportCache(client, cfg.Report.CacheTTL)
}

func provideDispatcher(sender notify.Sender, cfg *config.Config, logger *zap.Logger) *notify.Dispatcher {
	return notify.NewDispatcher(sender, notify.Options{
		Workers:     cfg.Receipt.Workers,
		QueueSize:   cfg.Receipt.QueueSize,
		SendTimeout: cfg.Receipt.SendTimeout,
	}, logger)
}

func providePricePolicy(cfg *config.Config) (sale.PricePolicy, error) {
	return sale.ParsePricePolicy(cfg.Sale.PricePolicy)
}

func provideReportLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Report.Location()
}

// provideJWTManager config.Config包含多个字段，jwt.NewManager只需要JWT部分
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

func provideRouterOptions(cfg *config.Config, logger *zap.Logger) router.Options {
	return router.Options{
		Mode:        cfg.Server.Mode,
		ServiceName: serviceName,
		Swagger:     cfg.Server.EnableSwagger,
		Logger:      logger,
	}
}

// InitializeApp MySQL部署下的依赖注入器
func InitializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(app), "engine", "manage", "dispatcher"),
	)
	return nil, nil, nil
}
