package store

import (
	"context"
)

// Repository 门店/仓库仓储接口(依赖倒置原则)
type Repository interface {
	// FindByID 根据ID查找门店/仓库
	FindByID(ctx context.Context, id uint) (*Store, error)

	// Create 创建门店/仓库
	Create(ctx context.Context, s *Store) error
}

// StockRepository 网点库存仓储接口
// 设计说明:网点库存的扣减与线上库存使用同一种手法——
// 单条条件更新,由数据库行级原子性裁决,不加应用层锁
type StockRepository interface {
	// FindByStoreAndBook 查询(店,书)库存行,无行返回nil(视作库存0)
	FindByStoreAndBook(ctx context.Context, storeID, bookID uint) (*StoreStock, error)

	// ListByStore 查询网点的全部库存行
	ListByStore(ctx context.Context, storeID uint) ([]*StoreStock, error)

	// Upsert 设置库存行(不存在则创建),管理员手工设置用
	Upsert(ctx context.Context, ss *StoreStock) error

	// DecrementStock 扣减网点库存(原子条件更新)
	// UPDATE store_stocks SET stock = stock - qty
	//   WHERE store_id = ? AND book_id = ? AND stock >= qty
	// 影响行数为0时返回ErrInsufficientStock
	// 必须在调用方事务内执行
	DecrementStock(ctx context.Context, storeID, bookID uint, qty int) error

	// IncrementStock 增加网点库存,行不存在则以qty创建
	// 必须在调用方事务内执行
	IncrementStock(ctx context.Context, storeID, bookID uint, qty int) error
}

// TransferRepository 调拨流水仓储接口(只追加)
type TransferRepository interface {
	// Append 追加一条调拨流水(在调拨事务内)
	Append(ctx context.Context, t *Transfer) error

	// ListByBook 按图书查询调拨历史
	ListByBook(ctx context.Context, bookID uint, page, pageSize int) ([]*Transfer, int64, error)
}
