package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luoyang/bookmall/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（生产环境应改用版本化迁移脚本）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 下单事务的行锁等待上限,超时报1205,应用层转成并发冲突(可重试)
	if cfg.Database.LockWaitTimeout > 0 {
		db.Exec("SET SESSION innodb_lock_wait_timeout = ?", cfg.Database.LockWaitTimeout)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&CartItemModel{},
		&PromotionModel{},
		&StoreModel{},
		&StoreStockModel{},
		&TransferModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,防止重复
// 3. Stock是线上可售库存,扣减只走条件更新,永不为负
// 4. 库存状态(stock_status)不建字段——它是派生值,读时计算
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author      string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Publisher   string         `gorm:"size:100;not null;comment:出版社"`
	Price       int64          `gorm:"index:idx_list;not null;comment:价格(分)"`
	Stock       int            `gorm:"default:0;comment:线上可售库存"`
	CoverURL    string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书描述"`
	CreatedAt   time.Time      `gorm:"index:idx_list;comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CartItemModel GORM购物车条目模型
// (user_id, book_id)联合唯一,一人一书一行
type CartItemModel struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_book;not null;comment:用户ID"`
	BookID        uint      `gorm:"uniqueIndex:idx_user_book;not null;comment:图书ID"`
	Quantity      int       `gorm:"not null;comment:期望购买数量"`
	PriceSnapshot int64     `gorm:"not null;comment:加购时单价(分,仅展示)"`
	StockSnapshot int       `gorm:"not null;comment:加购时库存(仅展示)"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartItemModel) TableName() string {
	return "cart_items"
}

// PromotionModel GORM优惠码模型
// 设计说明:
// 1. Code唯一索引
// 2. 可空规则字段(max_redemptions等)用指针,NULL=未设置
// 3. redeemed_count只通过条件更新+1,配合max_redemptions保证不超发
type PromotionModel struct {
	ID                uint       `gorm:"primaryKey"`
	Code              string     `gorm:"uniqueIndex;size:32;not null;comment:优惠码"`
	DiscountType      string     `gorm:"size:10;not null;comment:优惠类型(PERCENT/FIXED)"`
	DiscountValue     int64      `gorm:"not null;comment:折扣值(百分比或分)"`
	MinSubtotal       int64      `gorm:"default:0;comment:使用门槛(分)"`
	MaxDiscountAmount *int64     `gorm:"comment:最大优惠金额(分),NULL不限"`
	StartsAt          *time.Time `gorm:"comment:生效时间,NULL立即生效"`
	EndsAt            *time.Time `gorm:"comment:失效时间,NULL长期有效"`
	MaxRedemptions    *int       `gorm:"comment:总可用次数,NULL不限量"`
	RedeemedCount     int        `gorm:"default:0;comment:已使用次数"`
	IsActive          bool       `gorm:"default:true;comment:是否启用"`
	CreatedAt         time.Time  `gorm:"comment:创建时间"`
	UpdatedAt         time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PromotionModel) TableName() string {
	return "promotion_codes"
}

// StoreModel GORM门店/仓库模型
type StoreModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:名称"`
	Kind      string    `gorm:"size:10;not null;index;comment:类型(store/warehouse)"`
	Address   string    `gorm:"size:255;comment:地址"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StoreModel) TableName() string {
	return "stores"
}

// StoreStockModel GORM网点库存模型
// (store_id, book_id)联合唯一,行懒创建,无行视作库存0
type StoreStockModel struct {
	ID                uint      `gorm:"primaryKey"`
	StoreID           uint      `gorm:"uniqueIndex:idx_store_book;not null;comment:网点ID"`
	BookID            uint      `gorm:"uniqueIndex:idx_store_book;not null;comment:图书ID"`
	Stock             int       `gorm:"not null;default:0;comment:网点库存"`
	LowStockThreshold int       `gorm:"not null;default:0;comment:低库存告警阈值"`
	CreatedAt         time.Time `gorm:"comment:创建时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StoreStockModel) TableName() string {
	return "store_stocks"
}

// TransferModel GORM调拨流水模型(只插入,不更新不删除)
type TransferModel struct {
	ID              uint      `gorm:"primaryKey"`
	FromWarehouseID uint      `gorm:"index;not null;comment:调出仓库ID"`
	ToStoreID       uint      `gorm:"index;not null;comment:调入门店ID"`
	BookID          uint      `gorm:"index;not null;comment:图书ID"`
	Quantity        int       `gorm:"not null;comment:调拨数量"`
	ActorID         uint      `gorm:"not null;comment:操作人ID"`
	CreatedAt       time.Time `gorm:"index;comment:调拨时间"`
}

// TableName 指定表名
func (TransferModel) TableName() string {
	return "stock_transfers"
}

// OrderModel GORM订单模型
// 说明:
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. Status使用int存储(节省空间,便于索引)
type OrderModel struct {
	ID         uint             `gorm:"primaryKey"`
	OrderNo    string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID     uint             `gorm:"index;not null;comment:买家用户ID"`
	Subtotal   int64            `gorm:"not null;comment:折前小计(分)"`
	Discount   int64            `gorm:"not null;default:0;comment:折扣金额(分)"`
	Total      int64            `gorm:"not null;comment:实付金额(分)"`
	PromoCode  string           `gorm:"size:32;comment:使用的优惠码"`
	ReceiptURL string           `gorm:"size:500;comment:支付回执URL"`
	Status     int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1待确认2已确认3已完成4已取消)"`
	Items      []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt  time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 说明:记录下单时的价格快照(Price字段),目录改价不回溯
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	BookID   uint  `gorm:"index;not null;comment:图书ID"`
	Quantity int   `gorm:"not null;comment:购买数量"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}
