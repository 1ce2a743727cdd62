package promotion

import (
	"context"
	"time"

	"github.com/luoyang/bookmall/internal/domain/promotion"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// SavePromotionUseCase 优惠码创建/编辑用例(管理员)
// 编辑不触碰redeemed_count,已用名额永远只增不减
type SavePromotionUseCase struct {
	promoRepo promotion.Repository
}

// NewSavePromotionUseCase 创建优惠码管理用例
func NewSavePromotionUseCase(promoRepo promotion.Repository) *SavePromotionUseCase {
	return &SavePromotionUseCase{promoRepo: promoRepo}
}

// SavePromotionRequest 创建/编辑请求DTO
// 指针字段为nil表示"不设置该限制"
type SavePromotionRequest struct {
	Code              string
	DiscountType      string // PERCENT | FIXED
	DiscountValue     int64
	MinSubtotal       int64
	MaxDiscountAmount *int64
	StartsAt          *time.Time
	EndsAt            *time.Time
	MaxRedemptions    *int
	IsActive          bool
}

// SavePromotionResponse 响应DTO
type SavePromotionResponse struct {
	ID            uint   `json:"id"`
	Code          string `json:"code"`
	DiscountType  string `json:"discount_type"`
	DiscountValue int64  `json:"discount_value"`
	RedeemedCount int    `json:"redeemed_count"`
	IsActive      bool   `json:"is_active"`
}

// Create 创建优惠码
func (uc *SavePromotionUseCase) Create(ctx context.Context, req SavePromotionRequest) (*SavePromotionResponse, error) {
	p, err := uc.buildPromotion(req)
	if err != nil {
		return nil, err
	}

	if err := uc.promoRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return toSaveResponse(p), nil
}

// Update 编辑优惠码(按code定位)
func (uc *SavePromotionUseCase) Update(ctx context.Context, req SavePromotionRequest) (*SavePromotionResponse, error) {
	existing, err := uc.promoRepo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	updated, err := uc.buildPromotion(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.RedeemedCount = existing.RedeemedCount // 不允许编辑已用次数
	updated.UpdatedAt = time.Now()

	if err := uc.promoRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	return toSaveResponse(updated), nil
}

// buildPromotion 校验并构造实体
func (uc *SavePromotionUseCase) buildPromotion(req SavePromotionRequest) (*promotion.PromotionCode, error) {
	dt := promotion.DiscountType(req.DiscountType)
	if !dt.Valid() {
		return nil, promotion.ErrInvalidDiscount
	}

	// PERCENT取1-100,FIXED必须为正金额
	if dt == promotion.DiscountTypePercent && (req.DiscountValue < 1 || req.DiscountValue > 100) {
		return nil, promotion.ErrInvalidDiscount
	}
	if dt == promotion.DiscountTypeFixed && req.DiscountValue < 1 {
		return nil, promotion.ErrInvalidDiscount
	}

	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidParams, "失效时间早于生效时间")
	}
	if req.MaxRedemptions != nil && *req.MaxRedemptions < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidParams, "可用次数必须大于0")
	}

	now := time.Now()
	return &promotion.PromotionCode{
		Code:              req.Code,
		DiscountType:      dt,
		DiscountValue:     req.DiscountValue,
		MinSubtotal:       req.MinSubtotal,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartsAt:          req.StartsAt,
		EndsAt:            req.EndsAt,
		MaxRedemptions:    req.MaxRedemptions,
		IsActive:          req.IsActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// toSaveResponse 实体 → 响应DTO
func toSaveResponse(p *promotion.PromotionCode) *SavePromotionResponse {
	return &SavePromotionResponse{
		ID:            p.ID,
		Code:          p.Code,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
		RedeemedCount: p.RedeemedCount,
		IsActive:      p.IsActive,
	}
}
