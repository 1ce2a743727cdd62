package cart

import (
	"context"

	"github.com/luoyang/bookmall/internal/domain/cart"
)

// AddItemUseCase 加入购物车用例
// 数量钳制(不超过当前库存)由领域服务完成;购物车不锁库存,
// 钳制结果只是当下的参考,最终以下单时的扣减为准
type AddItemUseCase struct {
	cartService cart.Service
}

// NewAddItemUseCase 创建加购用例
func NewAddItemUseCase(cartService cart.Service) *AddItemUseCase {
	return &AddItemUseCase{cartService: cartService}
}

// AddItemRequest 加购请求DTO
type AddItemRequest struct {
	UserID   uint
	BookID   uint
	Quantity int
}

// CartItemResult 购物车条目DTO
type CartItemResult struct {
	BookID        uint   `json:"book_id"`
	Quantity      int    `json:"quantity"`
	PriceSnapshot int64  `json:"price_snapshot"` // 加购时单价(分),仅展示
	StockSnapshot int    `json:"stock_snapshot"` // 加购时库存,仅展示
	UpdatedAt     string `json:"updated_at"`
}

// Execute 执行加购
// 返回的Quantity可能小于请求值(被库存钳制),前端据此提示
func (uc *AddItemUseCase) Execute(ctx context.Context, req AddItemRequest) (*CartItemResult, error) {
	item, err := uc.cartService.AddItem(ctx, req.UserID, req.BookID, req.Quantity)
	if err != nil {
		return nil, err
	}

	return toCartItemResult(item), nil
}

// toCartItemResult 实体 → DTO
func toCartItemResult(item *cart.CartItem) *CartItemResult {
	return &CartItemResult{
		BookID:        item.BookID,
		Quantity:      item.Quantity,
		PriceSnapshot: item.PriceSnapshot,
		StockSnapshot: item.StockSnapshot,
		UpdatedAt:     item.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
