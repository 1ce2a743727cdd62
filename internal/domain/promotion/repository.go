package promotion

import (
	"context"
)

// Repository 优惠码仓储接口(依赖倒置原则)
type Repository interface {
	// Create 创建优惠码
	Create(ctx context.Context, promo *PromotionCode) error

	// FindByCode 根据优惠码查找
	FindByCode(ctx context.Context, code string) (*PromotionCode, error)

	// FindByID 根据ID查找
	FindByID(ctx context.Context, id uint) (*PromotionCode, error)

	// Update 更新优惠码(管理员编辑全部字段)
	Update(ctx context.Context, promo *PromotionCode) error

	// ConsumeRedemption 消耗一个兑换名额(原子条件更新)
	// 执行: UPDATE promotion_codes SET redeemed_count = redeemed_count + 1
	//       WHERE id = ? AND (max_redemptions IS NULL OR redeemed_count < max_redemptions)
	// 影响行数为0时返回ErrPromoExhausted;
	// 只允许在下单事务内调用,事务回滚时名额自动归还
	ConsumeRedemption(ctx context.Context, id uint) error
}
