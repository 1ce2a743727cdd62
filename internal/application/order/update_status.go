package order

import (
	"context"

	"github.com/luoyang/bookmall/internal/domain/order"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// UpdateStatusUseCase 订单状态更新用例(管理员)
// 取消有独立用例(涉及库存回补),这里只处理
// PENDING→CONFIRMED和CONFIRMED→COMPLETED两种推进
type UpdateStatusUseCase struct {
	orderRepo order.Repository
}

// NewUpdateStatusUseCase 创建状态更新用例
func NewUpdateStatusUseCase(orderRepo order.Repository) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orderRepo: orderRepo}
}

// UpdateStatusRequest 状态更新请求DTO
type UpdateStatusRequest struct {
	OrderID uint
	Status  string // PENDING/CONFIRMED/COMPLETED/CANCELLED
}

// Execute 执行状态更新
// 非法转换返回订单状态冲突;取消请走CancelOrderUseCase
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, req UpdateStatusRequest) error {
	target, ok := order.ParseStatus(req.Status)
	if !ok {
		return apperrors.WithMessage(apperrors.ErrInvalidParams, "未知的订单状态: %s", req.Status)
	}

	// 取消涉及库存回补,必须走取消用例,这里直接拒绝
	if target == order.OrderStatusCancelled {
		return apperrors.WithMessage(apperrors.ErrInvalidParams, "取消订单请使用取消接口")
	}

	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return err
	}

	if err := o.TransitionTo(target); err != nil {
		return err
	}

	return uc.orderRepo.Update(ctx, o)
}
