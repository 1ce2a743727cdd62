package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/luoyang/bookmall/internal/domain/promotion"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// promotionRepository 优惠码仓储实现(MySQL)
type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository 创建优惠码仓储
func NewPromotionRepository(db *gorm.DB) promotion.Repository {
	return &promotionRepository{db: db}
}

// Create 创建优惠码
func (r *promotionRepository) Create(ctx context.Context, p *promotion.PromotionCode) error {
	model := toPromotionModel(p)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return promotion.ErrCodeDuplicate
		}
		return apperrors.Wrap(err, "创建优惠码失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByCode 根据优惠码查找
func (r *promotionRepository) FindByCode(ctx context.Context, code string) (*promotion.PromotionCode, error) {
	var model PromotionModel
	err := getDB(ctx, r.db).Where("code = ?", code).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promotion.ErrPromoNotFound
		}
		return nil, apperrors.Wrap(err, "查询优惠码失败")
	}

	return toPromotionEntity(&model), nil
}

// FindByID 根据ID查找
func (r *promotionRepository) FindByID(ctx context.Context, id uint) (*promotion.PromotionCode, error) {
	var model PromotionModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promotion.ErrPromoNotFound
		}
		return nil, apperrors.Wrap(err, "查询优惠码失败")
	}

	return toPromotionEntity(&model), nil
}

// Update 更新优惠码(管理员编辑)
// 注意:不更新redeemed_count,它只走ConsumeRedemption
func (r *promotionRepository) Update(ctx context.Context, p *promotion.PromotionCode) error {
	result := getDB(ctx, r.db).Model(&PromotionModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"discount_type":       string(p.DiscountType),
			"discount_value":      p.DiscountValue,
			"min_subtotal":        p.MinSubtotal,
			"max_discount_amount": p.MaxDiscountAmount,
			"starts_at":           p.StartsAt,
			"ends_at":             p.EndsAt,
			"max_redemptions":     p.MaxRedemptions,
			"is_active":           p.IsActive,
			"updated_at":          p.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新优惠码失败")
	}
	if result.RowsAffected == 0 {
		return promotion.ErrPromoNotFound
	}
	return nil
}

// ConsumeRedemption 消耗一个兑换名额(原子条件更新)
// UPDATE promotion_codes SET redeemed_count = redeemed_count + 1
//
//	WHERE id = ? AND (max_redemptions IS NULL OR redeemed_count < max_redemptions)
//
// N个并发请求抢最后一个名额时,数据库保证恰好一个+1成功;
// 该操作只在下单事务内调用,事务回滚时名额自动归还——
// 校验阶段(Validate)绝不走这里,弃购不漏名额
func (r *promotionRepository) ConsumeRedemption(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db)
	result := db.Model(&PromotionModel{}).
		Where("id = ? AND (max_redemptions IS NULL OR redeemed_count < max_redemptions)", id).
		Update("redeemed_count", gorm.Expr("redeemed_count + 1"))

	if result.Error != nil {
		if isLockConflict(result.Error) {
			return translateLockConflict(result.Error)
		}
		return apperrors.Wrap(result.Error, "核销优惠码失败")
	}

	if result.RowsAffected == 0 {
		// 区分"不存在"和"名额已用完"
		var model PromotionModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return promotion.ErrPromoNotFound
			}
			return apperrors.Wrap(err, "查询优惠码失败")
		}
		return promotion.ErrPromoExhausted
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toPromotionModel 领域实体 → GORM模型
func toPromotionModel(p *promotion.PromotionCode) *PromotionModel {
	return &PromotionModel{
		ID:                p.ID,
		Code:              p.Code,
		DiscountType:      string(p.DiscountType),
		DiscountValue:     p.DiscountValue,
		MinSubtotal:       p.MinSubtotal,
		MaxDiscountAmount: p.MaxDiscountAmount,
		StartsAt:          p.StartsAt,
		EndsAt:            p.EndsAt,
		MaxRedemptions:    p.MaxRedemptions,
		RedeemedCount:     p.RedeemedCount,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// toPromotionEntity GORM模型 → 领域实体
func toPromotionEntity(model *PromotionModel) *promotion.PromotionCode {
	return &promotion.PromotionCode{
		ID:                model.ID,
		Code:              model.Code,
		DiscountType:      promotion.DiscountType(model.DiscountType),
		DiscountValue:     model.DiscountValue,
		MinSubtotal:       model.MinSubtotal,
		MaxDiscountAmount: model.MaxDiscountAmount,
		StartsAt:          model.StartsAt,
		EndsAt:            model.EndsAt,
		MaxRedemptions:    model.MaxRedemptions,
		RedeemedCount:     model.RedeemedCount,
		IsActive:          model.IsActive,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
