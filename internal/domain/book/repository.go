package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 库存的增减是仓储层的原子操作,不经过"读-改-写"
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// DecrementStock 扣减库存(原子条件更新)
	// 执行: UPDATE books SET stock = stock - qty WHERE id = ? AND stock >= qty
	// 数据库以行级原子性保证库存永不为负,不存在"先读后写"的竞争窗口;
	// 影响行数为0且图书存在时返回ErrInsufficientStock
	// 必须在调用方的事务内执行(事务DB通过context传递)
	DecrementStock(ctx context.Context, id uint, qty int) error

	// IncrementStock 增加库存(补货、订单取消回补)
	// 无上限,总是成功(图书不存在时返回ErrBookNotFound)
	IncrementStock(ctx context.Context, id uint, qty int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(搜索标题、作者、出版社)
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc)
}
