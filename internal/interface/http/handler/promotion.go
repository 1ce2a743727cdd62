package handler

import (
	"github.com/gin-gonic/gin"

	apppromotion "github.com/luoyang/bookmall/internal/application/promotion"
	"github.com/luoyang/bookmall/internal/interface/http/dto"
	"github.com/luoyang/bookmall/internal/interface/http/middleware"
	"github.com/luoyang/bookmall/pkg/response"
)

// PromotionHandler 优惠码HTTP处理器
type PromotionHandler struct {
	savePromotionUseCase     *apppromotion.SavePromotionUseCase
	validatePromotionUseCase *apppromotion.ValidatePromotionUseCase
}

// NewPromotionHandler 创建优惠码处理器
func NewPromotionHandler(
	savePromotionUseCase *apppromotion.SavePromotionUseCase,
	validatePromotionUseCase *apppromotion.ValidatePromotionUseCase,
) *PromotionHandler {
	return &PromotionHandler{
		savePromotionUseCase:     savePromotionUseCase,
		validatePromotionUseCase: validatePromotionUseCase,
	}
}

// CreatePromotion 创建优惠码
// @Summary      创建优惠码
// @Tags         优惠码
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SavePromotionRequest true "优惠码配置"
// @Success      201 {object} response.Response{data=dto.PromotionResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "优惠码已存在"
// @Router       /api/v1/promotions [post]
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req dto.SavePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.savePromotionUseCase.Create(c.Request.Context(), toSavePromotionRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toPromotionResponse(result))
}

// UpdatePromotion 编辑优惠码
// @Summary      编辑优惠码
// @Description  按code定位,已兑换数不可编辑
// @Tags         优惠码
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SavePromotionRequest true "优惠码配置"
// @Success      200 {object} response.Response{data=dto.PromotionResponse}
// @Failure      404 {object} response.Response "优惠码不存在"
// @Router       /api/v1/promotions [put]
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	var req dto.SavePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.savePromotionUseCase.Update(c.Request.Context(), toSavePromotionRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toPromotionResponse(result))
}

// ValidatePromotion 校验优惠码(结算页预览)
// @Summary      校验优惠码
// @Description  按当前购物车试算折扣,预览不占用名额,名额在提交订单时才原子占用
// @Tags         优惠码
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ValidatePromotionRequest true "优惠码"
// @Success      200 {object} response.Response{data=dto.ValidatePromotionResponse}
// @Failure      400 {object} response.Response "优惠码不可用/购物车为空"
// @Failure      404 {object} response.Response "优惠码不存在"
// @Router       /api/v1/promotions/validate [post]
func (h *PromotionHandler) ValidatePromotion(c *gin.Context) {
	var req dto.ValidatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.validatePromotionUseCase.Execute(c.Request.Context(), apppromotion.ValidatePromotionRequest{
		UserID: userID,
		Code:   req.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ValidatePromotionResponse{
		Code:         result.Code,
		Subtotal:     result.Subtotal,
		Discount:     result.Discount,
		Total:        result.Total,
		DiscountYuan: dto.FormatPriceYuan(result.Discount),
		TotalYuan:    dto.FormatPriceYuan(result.Total),
	})
}

func toSavePromotionRequest(req dto.SavePromotionRequest) apppromotion.SavePromotionRequest {
	return apppromotion.SavePromotionRequest{
		Code:              req.Code,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinSubtotal:       req.MinSubtotal,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartsAt:          req.StartsAt,
		EndsAt:            req.EndsAt,
		MaxRedemptions:    req.MaxRedemptions,
		IsActive:          req.IsActive,
	}
}

func toPromotionResponse(r *apppromotion.SavePromotionResponse) *dto.PromotionResponse {
	return &dto.PromotionResponse{
		ID:            r.ID,
		Code:          r.Code,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		RedeemedCount: r.RedeemedCount,
		IsActive:      r.IsActive,
	}
}
