package cart

import (
	"context"
)

// Repository 购物车仓储接口(依赖倒置原则)
type Repository interface {
	// FindByUserAndBook 查找用户购物车中指定图书的条目
	FindByUserAndBook(ctx context.Context, userID, bookID uint) (*CartItem, error)

	// ListByUser 查询用户的全部购物车条目
	ListByUser(ctx context.Context, userID uint) ([]*CartItem, error)

	// Save 创建或更新条目((UserID,BookID)唯一)
	Save(ctx context.Context, item *CartItem) error

	// Delete 删除单个条目
	Delete(ctx context.Context, userID, bookID uint) error

	// Clear 清空用户购物车(下单成功后在同一事务内调用)
	Clear(ctx context.Context, userID uint) error
}
