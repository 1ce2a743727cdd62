package store

import (
	"time"
)

// StoreKind 网点类型
type StoreKind string

const (
	KindStore     = StoreKind("store")     // 门店
	KindWarehouse = StoreKind("warehouse") // 仓库
)

// Store 门店/仓库实体
// 设计说明:仓库和门店共用一张表,用Kind区分——
// 调拨只允许从warehouse流向store,由领域服务校验
type Store struct {
	ID        uint
	Name      string
	Kind      StoreKind
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWarehouse 是否为仓库
func (s *Store) IsWarehouse() bool {
	return s.Kind == KindWarehouse
}

// StoreStock 网点库存((StoreID, BookID)一行)
// 设计说明:
// 1. 行在首次调拨或手工设置时才懒创建,没有行等价于库存为0
// 2. 门店库存与图书的线上库存(Book.Stock)是两个独立的池子:
//    线上订单只扣Book.Stock,调拨只动StoreStock,二者互不流转
//    (两池之间不做自动对账,线下盘点走手工设置接口)
type StoreStock struct {
	ID                uint
	StoreID           uint
	BookID            uint
	Stock             int // 网点库存,恒>=0
	LowStockThreshold int // 低库存告警阈值
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock 是否低于告警阈值
func (ss *StoreStock) IsLowStock() bool {
	return ss.Stock <= ss.LowStockThreshold
}

// Transfer 调拨流水(不可变,只追加)
// 每次仓库→门店的调拨在事务内追加一条,作为库存守恒的审计依据
type Transfer struct {
	ID              uint
	FromWarehouseID uint
	ToStoreID       uint
	BookID          uint
	Quantity        int
	ActorID         uint // 操作人(员工)
	CreatedAt       time.Time
}
