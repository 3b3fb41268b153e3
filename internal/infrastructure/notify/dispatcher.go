package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/pkg/metrics"
)

// Options 投递参数
type Options struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher 小票投递器
// 有界channel + 固定worker，启动时创建，关闭时排空队列
type Dispatcher struct {
	sender  Sender
	opts    Options
	logger  *zap.Logger
	queue   chan sale.Receipt
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher 创建投递器并启动worker
func NewDispatcher(sender Sender, opts Options, logger *zap.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 5 * time.Second
	}

	d := &Dispatcher{
		sender: sender,
		opts:   opts,
		logger: logger,
		queue:  make(chan sale.Receipt, opts.QueueSize),
	}

	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue 非阻塞入队，队列已满或已关闭时丢弃并返回false
func (d *Dispatcher) Enqueue(r sale.Receipt) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(r, "dispatcher stopped")
		return false
	}

	select {
	case d.queue <- r:
		metrics.ReceiptQueueLength.Set(float64(len(d.queue)))
		return true
	default:
		d.drop(r, "queue full")
		return false
	}
}

// Shutdown 停止接收新小票，等待队列中的小票投递完成或ctx到期
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("小票队列未排空即退出", zap.Int("remaining", len(d.queue)))
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for r := range d.queue {
		metrics.ReceiptQueueLength.Set(float64(len(d.queue)))
		d.send(r)
	}
}

func (d *Dispatcher) send(r sale.Receipt) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, r); err != nil {
		metrics.RecordReceipt("failed")
		d.logger.Warn("小票投递失败", zap.String("sale_no", r.SaleNo), zap.Error(err))
		return
	}
	metrics.RecordReceipt("sent")
}

func (d *Dispatcher) drop(r sale.Receipt, reason string) {
	metrics.RecordReceipt("dropped")
	d.logger.Warn("小票已丢弃", zap.String("sale_no", r.SaleNo), zap.String("reason", reason))
}
