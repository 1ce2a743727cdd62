package order

import (
	"context"
	"time"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/order"
	"github.com/luoyang/bookmall/internal/infrastructure/event"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
	"github.com/luoyang/bookmall/pkg/metrics"
	"github.com/luoyang/bookmall/pkg/tracing"
)

// CancelOrderUseCase 取消订单用例
//
// 取消和回补库存必须在同一事务里:状态改成CANCELLED的同时,
// 每个明细按下单数量原样加回线上库存,多退少补都不允许。
// 事务回滚时两者一起作废,不会出现"取消了订单没还库存"。
type CancelOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager TxManager
	events    *event.Publisher
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	events *event.Publisher,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		events:    events,
	}
}

// CancelOrderRequest 取消订单请求DTO
type CancelOrderRequest struct {
	OrderID uint
	UserID  uint // 发起人(本人或管理员)
	IsAdmin bool
}

// Execute 执行取消订单用例
// 只有PENDING/CONFIRMED可取消;COMPLETED是终态,返回状态冲突
func (uc *CancelOrderUseCase) Execute(ctx context.Context, req CancelOrderRequest) error {
	ctx, span := tracing.StartSpan(ctx, "bookmall", "CancelOrder")
	defer span.End()

	var cancelled *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}

		// 普通用户只能取消自己的订单
		if !req.IsAdmin && !o.IsOwnedBy(req.UserID) {
			return apperrors.ErrOrderNotFound
		}

		// 状态机校验(终态/非法转换在这里拦住)
		if err := o.Cancel(); err != nil {
			return err
		}

		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}

		// 逐行回补库存,数量与下单时严格一致
		for _, item := range o.Items {
			if err := uc.bookRepo.IncrementStock(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}

		cancelled = o
		return nil
	})

	if err != nil {
		return err
	}

	metrics.OrdersCancelledTotal.Inc()
	uc.events.OrderCancelled(event.OrderCancelledEvent{
		OrderID:     cancelled.ID,
		OrderNo:     cancelled.OrderNo,
		UserID:      cancelled.UserID,
		CancelledAt: time.Now(),
	})

	return nil
}
