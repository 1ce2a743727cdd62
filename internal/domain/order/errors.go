package order

import (
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.ErrInvalidOrderStatus

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.ErrEmptyCart

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrOrderNoDuplicate 订单号冲突(随机订单号碰撞,极罕见)
	ErrOrderNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号冲突，请重试")
)
