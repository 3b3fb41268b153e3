// Package metrics 基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求数、耗时、并发数
//   - 业务：库存流水、销售单、小票投递
//   - 基础设施：熔断器状态、消息队列发布/消费
//
// 所有Collector在包初始化时创建，InitMetrics只负责注册到默认Registry，
// 未注册时调用Inc/Observe同样安全（单元测试无需初始化）。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// HTTP请求相关指标
var (
	// HTTPRequestsTotal 标签：method、path（路由模板）、status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)
)

// 库存与销售业务指标
var (
	// StockMovementsTotal 标签：type（IN/OUT/TRANSFER_IN/TRANSFER_OUT/ADJUSTMENT）
	StockMovementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movements_total",
			Help: "库存流水写入总数",
		},
		[]string{"type"},
	)

	// StockMovementFailures 标签：operation（add/remove/transfer/adjust）、reason
	StockMovementFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movement_failures_total",
			Help: "库存操作失败总数",
		},
		[]string{"operation", "reason"},
	)

	SalesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_created_total",
			Help: "销售单创建总数",
		},
	)

	// SalesFailedTotal 标签：reason（insufficient_stock/not_found/invalid/internal）
	SalesFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_failed_total",
			Help: "销售单创建失败总数",
		},
		[]string{"reason"},
	)

	SaleCreationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sale_creation_duration_seconds",
			Help:    "销售单创建耗时（秒，含事务）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// ReceiptsDispatchedTotal 标签：result（sent/failed/dropped）
	ReceiptsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipts_dispatched_total",
			Help: "销售小票投递总数",
		},
		[]string{"result"},
	)

	ReceiptQueueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "receipt_queue_length",
			Help: "待投递的小票数",
		},
	)
)

// 基础设施指标
var (
	// CircuitBreakerState 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	// MessagesConsumedTotal 标签：queue、result（success/failure）
	MessagesConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
)

// InitMetrics 注册所有指标到默认Registry（可重复调用）
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInProgress,
			StockMovementsTotal,
			StockMovementFailures,
			SalesCreatedTotal,
			SalesFailedTotal,
			SaleCreationDuration,
			ReceiptsDispatchedTotal,
			ReceiptQueueLength,
			CircuitBreakerState,
			MessagesPublishedTotal,
			MessagesConsumedTotal,
		)
	})
}

// =========================================
// 辅助函数
// =========================================

// RecordStockMovement 记录一条库存流水
func RecordStockMovement(txType string) {
	StockMovementsTotal.WithLabelValues(txType).Inc()
}

// RecordStockFailure 记录库存操作失败
func RecordStockFailure(operation, reason string) {
	StockMovementFailures.WithLabelValues(operation, reason).Inc()
}

// RecordSaleFailure 记录销售单失败原因
func RecordSaleFailure(reason string) {
	SalesFailedTotal.WithLabelValues(reason).Inc()
}

// RecordReceipt 记录小票投递结果
func RecordReceipt(result string) {
	ReceiptsDispatchedTotal.WithLabelValues(result).Inc()
}

// SetCircuitBreakerState 记录熔断器状态
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
