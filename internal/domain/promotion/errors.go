package promotion

import (
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// 优惠码领域错误定义
// 说明:拒绝原因各有独立错误码,但HTTP层统一映射为400 InvalidPromotion
var (
	// ErrPromoNotFound 优惠码不存在
	ErrPromoNotFound = apperrors.ErrPromoNotFound

	// ErrPromoInactive 优惠码已停用
	ErrPromoInactive = apperrors.New(apperrors.ErrCodePromoInactive, "优惠码已停用")

	// ErrPromoNotStarted 优惠活动未开始
	ErrPromoNotStarted = apperrors.New(apperrors.ErrCodePromoNotStarted, "优惠活动尚未开始")

	// ErrPromoExpired 优惠码已过期
	ErrPromoExpired = apperrors.New(apperrors.ErrCodePromoExpired, "优惠码已过期")

	// ErrPromoMinSubtotal 未达到使用门槛
	ErrPromoMinSubtotal = apperrors.New(apperrors.ErrCodePromoMinSubtotal, "订单金额未达到优惠门槛")

	// ErrPromoExhausted 名额已用完
	ErrPromoExhausted = apperrors.New(apperrors.ErrCodePromoExhausted, "优惠码已被领完")

	// ErrCodeDuplicate 优惠码重复
	ErrCodeDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "优惠码已存在")

	// ErrInvalidDiscount 优惠规则不合法
	ErrInvalidDiscount = apperrors.New(apperrors.ErrCodeInvalidParams, "优惠规则不合法")
)
