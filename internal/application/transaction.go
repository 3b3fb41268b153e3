package application

import "context"

// TxManager 事务管理器接口
// 设计说明：
// 1. 用例层只依赖该接口，MySQL实现与内存实现可互换
// 2. fn内的Repository调用通过ctx共享同一事务
// 3. fn返回error时回滚，返回nil时提交
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
