package cart

import (
	"context"

	"github.com/luoyang/bookmall/internal/domain/cart"
)

// UpdateItemUseCase 修改/删除购物车条目用例
type UpdateItemUseCase struct {
	cartService cart.Service
}

// NewUpdateItemUseCase 创建修改条目用例
func NewUpdateItemUseCase(cartService cart.Service) *UpdateItemUseCase {
	return &UpdateItemUseCase{cartService: cartService}
}

// UpdateItemRequest 修改数量请求DTO
type UpdateItemRequest struct {
	UserID   uint
	BookID   uint
	Quantity int // 目标数量,会被钳制到[0,库存],0等价于删除
}

// UpdateItemResponse 修改数量响应DTO
// Removed为true时条目已被删除(目标数量钳制后为0)
type UpdateItemResponse struct {
	Removed bool            `json:"removed"`
	Item    *CartItemResult `json:"item,omitempty"`
}

// Execute 执行修改数量
func (uc *UpdateItemUseCase) Execute(ctx context.Context, req UpdateItemRequest) (*UpdateItemResponse, error) {
	item, err := uc.cartService.UpdateQuantity(ctx, req.UserID, req.BookID, req.Quantity)
	if err != nil {
		return nil, err
	}

	if item == nil {
		return &UpdateItemResponse{Removed: true}, nil
	}

	return &UpdateItemResponse{
		Removed: false,
		Item:    toCartItemResult(item),
	}, nil
}

// Remove 移除条目
func (uc *UpdateItemUseCase) Remove(ctx context.Context, userID, bookID uint) error {
	return uc.cartService.RemoveItem(ctx, userID, bookID)
}
