// Package notify 销售小票异步投递
//
// 销售事务提交后，用例调用Dispatcher.Enqueue把小票放入有界队列，
// 固定数量的worker取出后交给Sender（RabbitMQ或日志）。投递失败只记日志和指标，不影响销售。
package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/pkg/circuitbreaker"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
)

// Sender 小票发送器
type Sender interface {
	Send(ctx context.Context, r sale.Receipt) error
}

// LogSender 只把渲染后的小票写入日志（未启用RabbitMQ时使用）
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender 创建日志发送器
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, r sale.Receipt) error {
	var b strings.Builder
	if err := r.Render(&b); err != nil {
		return err
	}
	s.logger.Info("销售小票",
		zap.String("sale_no", r.SaleNo),
		zap.String("to", r.CustomerEmail),
		zap.String("receipt", b.String()),
	)
	return nil
}

// Publisher 消息发布接口（pkg/mq.Publisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQSender 发布小票事件到RabbitMQ，由receipt-worker消费
// 发布失败累计到阈值后熔断，避免每张小票都等待超时
type MQSender struct {
	publisher  Publisher
	routingKey string
	breaker    *circuitbreaker.CircuitBreaker
}

// NewMQSender 创建MQ发送器
func NewMQSender(publisher Publisher, routingKey string, logger *zap.Logger) *MQSender {
	const name = "receipt-publisher"
	breaker := circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))

	return &MQSender{
		publisher:  publisher,
		routingKey: routingKey,
		breaker:    breaker,
	}
}

func (s *MQSender) Send(ctx context.Context, r sale.Receipt) error {
	return s.breaker.Execute(func() error {
		return s.publisher.Publish(ctx, s.routingKey, r)
	})
}

// State 熔断器当前状态
func (s *MQSender) State() circuitbreaker.State {
	return s.breaker.State()
}
