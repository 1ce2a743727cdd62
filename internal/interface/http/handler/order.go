package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/luoyang/bookmall/internal/application/order"
	"github.com/luoyang/bookmall/internal/interface/http/dto"
	"github.com/luoyang/bookmall/internal/interface/http/middleware"
	"github.com/luoyang/bookmall/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase  *apporder.CreateOrderUseCase
	cancelOrderUseCase  *apporder.CancelOrderUseCase
	updateStatusUseCase *apporder.UpdateStatusUseCase
	getOrderUseCase     *apporder.GetOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	cancelOrderUseCase *apporder.CancelOrderUseCase,
	updateStatusUseCase *apporder.UpdateStatusUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:  createOrderUseCase,
		cancelOrderUseCase:  cancelOrderUseCase,
		updateStatusUseCase: updateStatusUseCase,
		getOrderUseCase:     getOrderUseCase,
	}
}

// CreateOrder 提交订单
// @Summary      提交订单
// @Description  以服务端购物车为准结算:扣减库存、占用优惠名额、建单、清空购物车在同一事务内完成
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "下单信息"
// @Success      201 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response "购物车为空/优惠码不可用"
// @Failure      409 {object} response.Response "库存不足/优惠名额已抢完"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:     userID,
		PromoCode:  req.PromoCode,
		ReceiptURL: req.ReceiptURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  取消的同时按订单明细原量回补库存,同一事务内完成
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      204 "已取消"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "订单状态不允许取消"
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的订单ID")
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.cancelOrderUseCase.Execute(c.Request.Context(), apporder.CancelOrderRequest{
		OrderID: uint(orderID),
		UserID:  userID,
		IsAdmin: middleware.IsAdmin(c),
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateStatus 更新订单状态
// @Summary      更新订单状态
// @Description  员工推进订单状态(PENDING→CONFIRMED→COMPLETED),取消请走取消接口
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      409 {object} response.Response "非法状态转换"
// @Router       /api/v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的订单ID")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.updateStatusUseCase.Execute(c.Request.Context(), apporder.UpdateStatusRequest{
		OrderID: uint(orderID),
		Status:  req.Status,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  普通用户只能查自己的订单,越权按不存在处理
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的订单ID")
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.getOrderUseCase.GetByID(c.Request.Context(), uint(orderID), userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOrders 我的订单列表
// @Summary      我的订单列表
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.getOrderUseCase.ListByUser(c.Request.Context(), userID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
