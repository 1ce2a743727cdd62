package promotion

import (
	"time"
)

// DiscountType 优惠类型
type DiscountType string

const (
	DiscountTypePercent = DiscountType("PERCENT") // 按比例折扣
	DiscountTypeFixed   = DiscountType("FIXED")   // 固定金额立减
)

// Valid 检查优惠类型是否合法
func (t DiscountType) Valid() bool {
	return t == DiscountTypePercent || t == DiscountTypeFixed
}

// PromotionCode 优惠码实体(聚合根)
// 设计说明:
// 1. Code是业务唯一标识(数据库唯一索引)
// 2. MaxRedemptions/MaxDiscountAmount/StartsAt/EndsAt用指针表达"未设置"
// 3. RedeemedCount只允许两个写入方:管理员编辑和下单事务内的原子+1
// 4. Validate只做校验和算折扣,绝不消耗名额——名额只在订单提交成功时消耗,
//    防止用户反复进结算页把名额"校验"光
type PromotionCode struct {
	ID                uint
	Code              string       // 优惠码(唯一)
	DiscountType      DiscountType // PERCENT | FIXED
	DiscountValue     int64        // PERCENT时为百分比(10=9折),FIXED时为金额(分)
	MinSubtotal       int64        // 使用门槛(订单小计,分)
	MaxDiscountAmount *int64       // 最大优惠金额(分),nil=不限
	StartsAt          *time.Time   // 生效时间,nil=立即生效
	EndsAt            *time.Time   // 失效时间,nil=长期有效
	MaxRedemptions    *int         // 总可用次数,nil=不限量
	RedeemedCount     int          // 已使用次数
	IsActive          bool         // 是否启用
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate 校验优惠码并计算折扣金额
// 参数:
// - subtotal: 订单小计(分),按当前目录价计算
// - now: 校验时刻(注入便于测试)
// 校验顺序(与拒绝原因一一对应):
// 停用 → 未开始 → 已过期 → 未达门槛 → 名额已用完
// 返回的折扣恒满足 0 <= discount <= subtotal
func (p *PromotionCode) Validate(subtotal int64, now time.Time) (int64, error) {
	if !p.IsActive {
		return 0, ErrPromoInactive
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return 0, ErrPromoNotStarted
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return 0, ErrPromoExpired
	}
	if subtotal < p.MinSubtotal {
		return 0, ErrPromoMinSubtotal
	}
	// 名额检查在这里只是提前拦截;最终判定由下单事务内的
	// 条件更新(redeemed_count < max_redemptions)保证
	if p.MaxRedemptions != nil && p.RedeemedCount >= *p.MaxRedemptions {
		return 0, ErrPromoExhausted
	}

	return p.discount(subtotal), nil
}

// discount 计算折扣金额
// PERCENT: subtotal × value / 100,有上限则取min
// FIXED:   min(value, subtotal, 上限)
func (p *PromotionCode) discount(subtotal int64) int64 {
	var d int64
	switch p.DiscountType {
	case DiscountTypePercent:
		d = subtotal * p.DiscountValue / 100
	case DiscountTypeFixed:
		d = p.DiscountValue
	default:
		return 0
	}

	if p.MaxDiscountAmount != nil && d > *p.MaxDiscountAmount {
		d = *p.MaxDiscountAmount
	}
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d
}

// HasQuota 是否设置了限量
func (p *PromotionCode) HasQuota() bool {
	return p.MaxRedemptions != nil
}
