package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xiebiao/inventory-pos/internal/domain/sale"
	"github.com/xiebiao/inventory-pos/pkg/mq"
)

// ReceiptHandler receipt-worker的消息处理函数
// 解析小票事件后交给sender；消息格式错误时丢弃，发送失败时重新入队
func ReceiptHandler(sender Sender) func(ctx context.Context, body []byte) error {
	return func(ctx context.Context, body []byte) error {
		var r sale.Receipt
		if err := json.Unmarshal(body, &r); err != nil {
			return fmt.Errorf("%w: 小票格式错误: %v", mq.ErrDiscard, err)
		}
		if r.SaleNo == "" {
			return fmt.Errorf("%w: 小票缺少sale_no", mq.ErrDiscard)
		}
		return sender.Send(ctx, r)
	}
}
