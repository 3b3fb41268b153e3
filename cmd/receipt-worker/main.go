// receipt-worker 消费销售小票事件
//
// API服务在rabbitmq.enabled=true时把小票发布到 rabbitmq.exchange，
// 本进程从 rabbitmq.receipt_queue 取出后渲染为纯文本并写入日志。
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/infrastructure/config"
	"github.com/xiebiao/inventory-pos/internal/infrastructure/notify"
	"github.com/xiebiao/inventory-pos/pkg/logger"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
	"github.com/xiebiao/inventory-pos/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog := logger.MustNew(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	defer func() { _ = zlog.Sync() }()

	if !cfg.RabbitMQ.Enabled {
		zlog.Fatal("receipt-worker需要启用RabbitMQ（rabbitmq.enabled=true）")
	}
	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.ExchangeType,
		cfg.RabbitMQ.ReceiptQueue,
		[]string{cfg.RabbitMQ.ReceiptKey},
		zlog,
	)
	if err != nil {
		zlog.Fatal("创建消费者失败", zap.Error(err))
	}
	defer func() { _ = consumer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := notify.ReceiptHandler(notify.NewLogSender(zlog))
	if err := consumer.Consume(ctx, handle); err != nil {
		zlog.Error("消费中断", zap.Error(err))
		return
	}
	zlog.Info("receipt-worker已退出")
}
