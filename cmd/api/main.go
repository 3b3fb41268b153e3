package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	_ "github.com/xiebiao/inventory-pos/docs"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/config"
	"github.com/xiebiao/inventory-pos/pkg/logger"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
	"github.com/xiebiao/inventory-pos/pkg/tracing"
)

const serviceName = "inventory-pos"

// @title        Inventory POS API
// @version      1.0
// @description  库存与收银服务：商品、存储点、库存流水、销售、报表
// @BasePath     /api/v1

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 格式：Bearer {access_token}

// main 主程序入口
// 启动顺序：配置 → 日志 → 追踪/指标 → 存储 → 用例 → HTTP/gRPC
// 关闭顺序相反：先停止接收请求，再排空小票队列，最后关闭存储连接
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx := context.Background()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: serviceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	metrics.InitMetrics()

	app, cleanup, err := newApp(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := app.manage.Bootstrap(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
		return fmt.Errorf("初始化管理员失败: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		zlog.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常: %w", err)
		}
	}()

	// gRPC只提供健康检查与反射，供负载均衡和grpcurl探活
	var grpcServer *grpc.Server
	if cfg.GRPC.Port > 0 {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
		grpcServer = grpc.NewServer()
		healthServer := health.NewServer()
		healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		reflection.Register(grpcServer)

		go func() {
			zlog.Info("gRPC健康检查启动", zap.Int("port", cfg.GRPC.Port))
			if err := grpcServer.Serve(listener); err != nil {
				errCh <- fmt.Errorf("gRPC服务异常: %w", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		zlog.Info("收到关闭信号，开始优雅关闭", zap.String("signal", sig.String()))
	case err := <-errCh:
		zlog.Error("服务启动失败，开始关闭", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("HTTP服务关闭超时", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := app.dispatcher.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("小票队列未排空", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zlog.Warn("关闭追踪失败", zap.Error(err))
	}

	zlog.Info("服务已安全关闭")
	return nil
}
