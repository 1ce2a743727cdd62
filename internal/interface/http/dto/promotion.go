package dto

import "time"

// SavePromotionRequest HTTP优惠码创建/编辑请求
// 指针字段缺省表示"不设置该限制"
type SavePromotionRequest struct {
	Code              string     `json:"code" binding:"required,max=32" example:"SAVE10"`
	DiscountType      string     `json:"discount_type" binding:"required,oneof=PERCENT FIXED" example:"PERCENT"`
	DiscountValue     int64      `json:"discount_value" binding:"required,min=1" example:"10"` // PERCENT为百分比,FIXED为分
	MinSubtotal       int64      `json:"min_subtotal" binding:"min=0" example:"2000"`          // 使用门槛(分)
	MaxDiscountAmount *int64     `json:"max_discount_amount,omitempty" example:"500"`          // 最大优惠(分)
	StartsAt          *time.Time `json:"starts_at,omitempty"`
	EndsAt            *time.Time `json:"ends_at,omitempty"`
	MaxRedemptions    *int       `json:"max_redemptions,omitempty" example:"100"`
	IsActive          bool       `json:"is_active" example:"true"`
}

// PromotionResponse HTTP优惠码响应
type PromotionResponse struct {
	ID            uint   `json:"id" example:"1"`
	Code          string `json:"code" example:"SAVE10"`
	DiscountType  string `json:"discount_type" example:"PERCENT"`
	DiscountValue int64  `json:"discount_value" example:"10"`
	RedeemedCount int    `json:"redeemed_count" example:"42"`
	IsActive      bool   `json:"is_active" example:"true"`
}

// ValidatePromotionRequest HTTP优惠码校验请求(结算页预览)
type ValidatePromotionRequest struct {
	Code string `json:"code" binding:"required,max=32" example:"SAVE10"`
}

// ValidatePromotionResponse HTTP优惠码校验响应
// 预览结果不是承诺,名额在提交订单时才原子占用
type ValidatePromotionResponse struct {
	Code         string `json:"code" example:"SAVE10"`
	Subtotal     int64  `json:"subtotal" example:"6000"`
	Discount     int64  `json:"discount" example:"500"`
	Total        int64  `json:"total" example:"5500"`
	DiscountYuan string `json:"discount_yuan" example:"5.00"`
	TotalYuan    string `json:"total_yuan" example:"55.00"`
}
