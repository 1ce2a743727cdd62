package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
	"github.com/luoyang/bookmall/internal/domain/order"
	"github.com/luoyang/bookmall/internal/domain/promotion"
	"github.com/luoyang/bookmall/internal/infrastructure/event"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
	"github.com/luoyang/bookmall/pkg/metrics"
	"github.com/luoyang/bookmall/pkg/tracing"
)

// TxManager 事务边界抽象,生产实现是mysql.TxManager
// fn返回error时回滚,返回nil时提交
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateOrderUseCase 下单用例(整个系统的核心路径)
//
// 一次下单要在同一个事务里完成四件事:
// 1. 逐行扣减线上库存(条件更新,不足即中止)
// 2. 核销优惠码名额(条件更新,用完即中止)
// 3. 创建订单及明细(价格取当前目录价定格)
// 4. 清空购物车
// 任何一步失败整个事务回滚,已扣的库存、已占的名额原样退回,
// 不存在"扣了库存没生成订单"的中间态。
//
// 防超卖不靠应用层锁:
// UPDATE books SET stock = stock - ? WHERE id = ? AND stock >= ?
// N个并发请求抢最后一本书时,数据库行级原子性保证恰好一个成功,
// 其余拿到RowsAffected=0,转成"库存不足"返回。
type CreateOrderUseCase struct {
	orderRepo order.Repository
	cartRepo  cart.Repository
	bookRepo  book.Repository
	promoRepo promotion.Repository
	txManager TxManager
	events    *event.Publisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	cartRepo cart.Repository,
	bookRepo book.Repository,
	promoRepo promotion.Repository,
	txManager TxManager,
	events *event.Publisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		promoRepo: promoRepo,
		txManager: txManager,
		events:    events,
	}
}

// CreateOrderRequest 下单请求DTO
// 订单内容以服务端购物车为准,客户端不传商品列表,防止改价/改量攻击
type CreateOrderRequest struct {
	UserID     uint   // 买家用户ID(从JWT中提取)
	PromoCode  string // 优惠码,空串=不使用
	ReceiptURL string // 支付回执URL(外部支付系统提供,原样保存)
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
	OrderID   uint                    `json:"order_id"`
	OrderNo   string                  `json:"order_no"`
	Subtotal  int64                   `json:"subtotal"`
	Discount  int64                   `json:"discount"`
	Total     int64                   `json:"total"`
	TotalYuan string                  `json:"total_yuan"`
	PromoCode string                  `json:"promo_code,omitempty"`
	Status    string                  `json:"status"`
	Items     []CreateOrderItemResult `json:"items"`
	CreatedAt string                  `json:"created_at"`
}

// CreateOrderItemResult 订单明细结果
type CreateOrderItemResult struct {
	BookID   uint  `json:"book_id"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"` // 下单时单价(分)
}

// Execute 执行下单用例
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bookmall", "CreateOrder")
	defer span.End()

	start := time.Now()

	var result *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:读购物车,空车直接拒绝
		// ========================================
		items, err := uc.cartRepo.ListByUser(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return order.ErrEmptyCart
		}

		// ========================================
		// 步骤2:按当前目录价计算小计
		// 加购时的价格快照只用于展示,结算一律以当前价为准
		// ========================================
		var subtotal int64
		orderItems := make([]order.OrderItem, len(items))
		bookTitles := make(map[uint]string, len(items))
		for i, item := range items {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err
			}
			bookTitles[b.ID] = b.Title
			orderItems[i] = order.OrderItem{
				BookID:   item.BookID,
				Quantity: item.Quantity,
				Price:    b.Price, // 价格快照
			}
			subtotal += b.Price * int64(item.Quantity)
		}

		// ========================================
		// 步骤3:校验优惠码,算折扣(只校验,不占名额)
		// ========================================
		var discount int64
		var promo *promotion.PromotionCode
		if req.PromoCode != "" {
			promo, err = uc.promoRepo.FindByCode(txCtx, req.PromoCode)
			if err != nil {
				return err
			}
			discount, err = promo.Validate(subtotal, time.Now())
			if err != nil {
				return err
			}
		}

		// ========================================
		// 步骤4:逐行扣库存(条件更新)
		// 任何一行不足,整个事务回滚,前面扣掉的行全部退回
		// ========================================
		for _, item := range orderItems {
			if err := uc.bookRepo.DecrementStock(txCtx, item.BookID, item.Quantity); err != nil {
				if errors.Is(err, book.ErrInsufficientStock) {
					return apperrors.WithMessage(apperrors.ErrInsufficientStock,
						"《%s》库存不足", bookTitles[item.BookID])
				}
				return err
			}
		}

		// ========================================
		// 步骤5:核销优惠码名额(条件更新)
		// 只有限量码需要占名额;竞争最后一个名额时数据库裁决
		// ========================================
		if promo != nil && promo.HasQuota() {
			if err := uc.promoRepo.ConsumeRedemption(txCtx, promo.ID); err != nil {
				return err
			}
		}

		// ========================================
		// 步骤6:创建订单(金额定格)+清空购物车
		// ========================================
		newOrder := order.NewOrder(order.GenerateOrderNo(), req.UserID, orderItems, subtotal, discount, req.PromoCode)
		newOrder.ReceiptURL = req.ReceiptURL

		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		if err := uc.cartRepo.Clear(txCtx, req.UserID); err != nil {
			return err
		}

		result = newOrder
		return nil
	})

	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	// 事务已提交,记指标、发事件(失败不影响订单)
	metrics.OrdersCreatedTotal.Inc()
	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())
	if result.PromoCode != "" {
		metrics.PromoRedemptionsTotal.Inc()
	}

	uc.events.OrderCreated(event.OrderCreatedEvent{
		OrderID:   result.ID,
		OrderNo:   result.OrderNo,
		UserID:    result.UserID,
		Total:     result.Total,
		PromoCode: result.PromoCode,
		CreatedAt: result.CreatedAt,
	})

	return toCreateOrderResponse(result), nil
}

// recordRejection 按拒绝原因记指标
func (uc *CreateOrderUseCase) recordRejection(err error) {
	reason := "other"
	appErr := apperrors.GetAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeInsufficientStock:
		reason = "insufficient_stock"
	case apperrors.ErrCodeEmptyCart:
		reason = "empty_cart"
	case apperrors.ErrCodeConcurrencyConflict:
		reason = "conflict"
	case apperrors.ErrCodeInvalidPromotion,
		apperrors.ErrCodePromoInactive,
		apperrors.ErrCodePromoNotStarted,
		apperrors.ErrCodePromoExpired,
		apperrors.ErrCodePromoMinSubtotal,
		apperrors.ErrCodePromoExhausted,
		apperrors.ErrCodePromoNotFound:
		reason = "invalid_promotion"
	}
	metrics.IncCounterVec(metrics.OrdersRejectedTotal, map[string]string{"reason": reason})
}

// toCreateOrderResponse 构建响应DTO
func toCreateOrderResponse(o *order.Order) *CreateOrderResponse {
	items := make([]CreateOrderItemResult, len(o.Items))
	for i, item := range o.Items {
		items[i] = CreateOrderItemResult{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &CreateOrderResponse{
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		Subtotal:  o.Subtotal,
		Discount:  o.Discount,
		Total:     o.Total,
		TotalYuan: formatPrice(o.Total),
		PromoCode: o.PromoCode,
		Status:    o.Status.String(),
		Items:     items,
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
