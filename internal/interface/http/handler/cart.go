package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcart "github.com/luoyang/bookmall/internal/application/cart"
	"github.com/luoyang/bookmall/internal/interface/http/dto"
	"github.com/luoyang/bookmall/internal/interface/http/middleware"
	"github.com/luoyang/bookmall/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 购物车是服务端权威状态,所有写操作返回钳制后的实际数量
type CartHandler struct {
	addItemUseCase    *appcart.AddItemUseCase
	updateItemUseCase *appcart.UpdateItemUseCase
	getCartUseCase    *appcart.GetCartUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	addItemUseCase *appcart.AddItemUseCase,
	updateItemUseCase *appcart.UpdateItemUseCase,
	getCartUseCase *appcart.GetCartUseCase,
) *CartHandler {
	return &CartHandler{
		addItemUseCase:    addItemUseCase,
		updateItemUseCase: updateItemUseCase,
		getCartUseCase:    getCartUseCase,
	}
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Description  数量超过当前库存时钳制到库存量,返回实际数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "加购信息"
// @Success      201 {object} response.Response{data=dto.CartItemResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "图书无库存"
// @Router       /api/v1/cart [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.addItemUseCase.Execute(c.Request.Context(), appcart.AddItemRequest{
		UserID:   userID,
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.CartItemResponse{
		BookID:        result.BookID,
		Quantity:      result.Quantity,
		PriceSnapshot: result.PriceSnapshot,
		StockSnapshot: result.StockSnapshot,
		UpdatedAt:     result.UpdatedAt,
	})
}

// UpdateItem 修改条目数量
// @Summary      修改购物车条目
// @Description  数量钳制到[0,库存],0等价于删除
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Param        request body dto.UpdateCartItemRequest true "目标数量"
// @Success      200 {object} response.Response{data=dto.CartItemResponse}
// @Failure      404 {object} response.Response "条目不存在"
// @Router       /api/v1/cart/{bookId} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.updateItemUseCase.Execute(c.Request.Context(), appcart.UpdateItemRequest{
		UserID:   userID,
		BookID:   uint(bookID),
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Removed {
		response.Success(c, &dto.CartItemResponse{
			BookID:  uint(bookID),
			Removed: true,
		})
		return
	}

	response.Success(c, &dto.CartItemResponse{
		BookID:        result.Item.BookID,
		Quantity:      result.Item.Quantity,
		PriceSnapshot: result.Item.PriceSnapshot,
		StockSnapshot: result.Item.StockSnapshot,
		UpdatedAt:     result.Item.UpdatedAt,
	})
}

// RemoveItem 移除条目
// @Summary      移除购物车条目
// @Tags         购物车
// @Security     BearerAuth
// @Param        bookId path int true "图书ID"
// @Success      204 "已删除"
// @Failure      404 {object} response.Response "条目不存在"
// @Router       /api/v1/cart/{bookId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "无效的图书ID")
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.updateItemUseCase.Remove(c.Request.Context(), userID, uint(bookID)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetCart 查询购物车
// @Summary      查询购物车
// @Description  返回条目及图书当前价格/库存状态,小计按当前目录价
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.getCartUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	lines := make([]dto.CartLineResponse, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = dto.CartLineResponse{
			BookID:        line.BookID,
			Title:         line.Title,
			Quantity:      line.Quantity,
			CurrentPrice:  line.CurrentPrice,
			PriceSnapshot: line.PriceSnapshot,
			PriceChanged:  line.PriceChanged,
			Stock:         line.Stock,
			StockStatus:   line.StockStatus,
		}
	}

	response.Success(c, &dto.CartResponse{
		Lines:        lines,
		Subtotal:     result.Subtotal,
		SubtotalYuan: dto.FormatPriceYuan(result.Subtotal),
	})
}
