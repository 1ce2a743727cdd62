package book

import (
	"time"
)

// StockStatus 库存状态(派生值)
// 设计说明:
// 1. 永远根据当前Stock实时计算,不落库(落库会产生两份真相)
// 2. 边界:0→缺货,1~5→库存紧张,>5→有货
type StockStatus string

const (
	StockStatusOut = StockStatus("OUT_OF_STOCK") // 缺货
	StockStatusLow = StockStatus("LOW_STOCK")    // 库存紧张
	StockStatusIn  = StockStatus("IN_STOCK")     // 有货
)

// lowStockBoundary 库存紧张的上界(含)
const lowStockBoundary = 5

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. ISBN作为业务唯一标识(数据库层保证唯一性)
// 4. Stock是线上可售库存池,与门店库存(StoreStock)相互独立
type Book struct {
	ID          uint
	ISBN        string // ISBN号(国际标准书号)
	Title       string // 书名
	Author      string // 作者
	Publisher   string // 出版社
	Price       int64  // 价格(单位:分,1元=100分)
	Stock       int    // 线上可售库存
	CoverURL    string // 封面图片URL
	Description string // 图书描述
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(isbn, title, author, publisher string, price int64, stock int, coverURL, description string) *Book {
	now := time.Now()
	return &Book{
		ISBN:        isbn,
		Title:       title,
		Author:      author,
		Publisher:   publisher,
		Price:       price,
		Stock:       stock,
		CoverURL:    coverURL,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// StockStatus 计算当前库存状态
func (b *Book) StockStatus() StockStatus {
	switch {
	case b.Stock <= 0:
		return StockStatusOut
	case b.Stock <= lowStockBoundary:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// HasStock 检查库存是否满足数量(只读参考值)
// 注意:这是给购物车做展示性钳制用的,下单时以数据库条件更新为准,
// 并发场景下这里的结果随时可能过期
func (b *Book) HasStock(qty int) bool {
	return qty > 0 && qty <= b.Stock
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0;历史订单保存下单时的价格快照,不受影响
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, author, publisher, description string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}
