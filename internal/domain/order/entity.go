package order

import (
	"time"
)

// OrderStatus 订单状态
// 说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为类型别名,便于添加方法
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待确认(已扣库存,等待支付回执)
	OrderStatusConfirmed OrderStatus = 2 // 已确认
	OrderStatusCompleted OrderStatus = 3 // 已完成
	OrderStatusCancelled OrderStatus = 4 // 已取消(库存已回补)
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "PENDING"
	case OrderStatusConfirmed:
		return "CONFIRMED"
	case OrderStatusCompleted:
		return "COMPLETED"
	case OrderStatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus 解析状态字符串(HTTP接口用)
func ParseStatus(s string) (OrderStatus, bool) {
	switch s {
	case "PENDING":
		return OrderStatusPending, true
	case "CONFIRMED":
		return OrderStatusConfirmed, true
	case "COMPLETED":
		return OrderStatusCompleted, true
	case "CANCELLED":
		return OrderStatusCancelled, true
	}
	return 0, false
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,OrderItem是子实体,必须在同一事务中创建
// 2. Subtotal/Discount/Total在创建时定格,目录改价不影响历史订单
// 3. ReceiptURL是支付回执,本系统不做支付,原样透传保存
type Order struct {
	ID         uint
	OrderNo    string      // 订单号(业务主键,全局唯一)
	UserID     uint        // 买家用户ID
	Subtotal   int64       // 折前小计(分)
	Discount   int64       // 折扣金额(分)
	Total      int64       // 实付金额(分) = Subtotal - Discount
	PromoCode  string      // 使用的优惠码,空串=未用
	ReceiptURL string      // 支付回执URL(外部系统提供,不透析)
	Status     OrderStatus // 订单状态
	Items      []OrderItem // 订单明细(聚合内的子实体)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem 订单明细项
// 说明:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Price字段记录"下单时的价格"(历史价格快照)
// 3. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
type OrderItem struct {
	ID       uint
	OrderID  uint  // 所属订单ID
	BookID   uint  // 图书ID
	Quantity int   // 购买数量
	Price    int64 // 下单时的单价(分)
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为Pending,金额由调用方按当前目录价算好传入
func NewOrder(orderNo string, userID uint, items []OrderItem, subtotal, discount int64, promoCode string) *Order {
	now := time.Now()
	return &Order{
		OrderNo:   orderNo,
		UserID:    userID,
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     subtotal - discount,
		PromoCode: promoCode,
		Status:    OrderStatusPending,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机:
//
//	PENDING   → CONFIRMED | CANCELLED
//	CONFIRMED → COMPLETED | CANCELLED
//	COMPLETED / CANCELLED 为终态
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
		OrderStatusCompleted: {},
		OrderStatusCancelled: {},
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Confirm 确认订单(领域行为)
func (o *Order) Confirm() error {
	return o.TransitionTo(OrderStatusConfirmed)
}

// Complete 完成订单(领域行为)
func (o *Order) Complete() error {
	return o.TransitionTo(OrderStatusCompleted)
}

// Cancel 取消订单(领域行为)
// 取消必须连同库存回补在同一事务内执行,见应用层CancelOrderUseCase
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// CalculateSubtotal 按明细实时计算折前小计
// 用于校验Subtotal字段未被篡改
func (o *Order) CalculateSubtotal() int64 {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
