package promotion

import (
	"context"
	"time"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
	"github.com/luoyang/bookmall/internal/domain/promotion"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
	"github.com/luoyang/bookmall/pkg/metrics"
)

// ValidatePromotionUseCase 优惠码校验用例(结算页预览)
//
// 只读:按用户当前购物车算小计,校验优惠码并返回预计折扣。
// 绝不消耗名额——名额只在下单事务里原子占用,用户反复进
// 结算页不会把限量码"看"光。预览通过也不是承诺,提交时
// 名额可能已被别人抢走。
type ValidatePromotionUseCase struct {
	promoRepo promotion.Repository
	cartRepo  cart.Repository
	bookRepo  book.Repository
}

// NewValidatePromotionUseCase 创建校验用例
func NewValidatePromotionUseCase(
	promoRepo promotion.Repository,
	cartRepo cart.Repository,
	bookRepo book.Repository,
) *ValidatePromotionUseCase {
	return &ValidatePromotionUseCase{
		promoRepo: promoRepo,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
	}
}

// ValidatePromotionRequest 校验请求DTO
type ValidatePromotionRequest struct {
	UserID uint
	Code   string
}

// ValidatePromotionResponse 校验响应DTO
type ValidatePromotionResponse struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"` // 当前购物车小计(分)
	Discount int64  `json:"discount"` // 预计折扣(分)
	Total    int64  `json:"total"`    // 预计实付(分)
}

// Execute 执行校验
func (uc *ValidatePromotionUseCase) Execute(ctx context.Context, req ValidatePromotionRequest) (*ValidatePromotionResponse, error) {
	items, err := uc.cartRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	// 小计按当前目录价,与下单口径一致
	var subtotal int64
	for _, item := range items {
		b, err := uc.bookRepo.FindByID(ctx, item.BookID)
		if err != nil {
			return nil, err
		}
		subtotal += b.Price * int64(item.Quantity)
	}

	p, err := uc.promoRepo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	discount, err := p.Validate(subtotal, time.Now())
	if err != nil {
		uc.recordRejection(err)
		return nil, err
	}

	return &ValidatePromotionResponse{
		Code:     p.Code,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}, nil
}

// recordRejection 按拒绝原因记指标
func (uc *ValidatePromotionUseCase) recordRejection(err error) {
	reason := "other"
	switch apperrors.GetAppError(err).Code {
	case apperrors.ErrCodePromoInactive:
		reason = "inactive"
	case apperrors.ErrCodePromoNotStarted:
		reason = "not_started"
	case apperrors.ErrCodePromoExpired:
		reason = "expired"
	case apperrors.ErrCodePromoMinSubtotal:
		reason = "min_subtotal"
	case apperrors.ErrCodePromoExhausted:
		reason = "exhausted"
	}
	metrics.IncCounterVec(metrics.PromoRejectionsTotal, map[string]string{"reason": reason})
}
