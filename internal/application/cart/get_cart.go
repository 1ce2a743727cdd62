package cart

import (
	"context"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
)

// GetCartUseCase 查询购物车用例
// 返回条目时附带图书的当前价格和库存状态,
// 前端对比加购快照即可提示"价格有变动/库存紧张"
type GetCartUseCase struct {
	cartService cart.Service
	bookRepo    book.Repository
}

// NewGetCartUseCase 创建查询购物车用例
func NewGetCartUseCase(cartService cart.Service, bookRepo book.Repository) *GetCartUseCase {
	return &GetCartUseCase{
		cartService: cartService,
		bookRepo:    bookRepo,
	}
}

// CartLine 购物车行DTO(条目+图书当前状态)
type CartLine struct {
	BookID        uint   `json:"book_id"`
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	CurrentPrice  int64  `json:"current_price"`  // 当前目录价(分),结算按这个算
	PriceSnapshot int64  `json:"price_snapshot"` // 加购时单价(分)
	PriceChanged  bool   `json:"price_changed"`
	Stock         int    `json:"stock"`
	StockStatus   string `json:"stock_status"`
}

// GetCartResponse 购物车响应DTO
type GetCartResponse struct {
	Lines    []CartLine `json:"lines"`
	Subtotal int64      `json:"subtotal"` // 按当前目录价的小计(分)
}

// Execute 执行查询购物车
func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*GetCartResponse, error) {
	items, err := uc.cartService.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	var subtotal int64
	for _, item := range items {
		b, err := uc.bookRepo.FindByID(ctx, item.BookID)
		if err != nil {
			// 图书已下架,跳过该行(不阻塞整个购物车)
			if err == book.ErrBookNotFound {
				continue
			}
			return nil, err
		}

		lines = append(lines, CartLine{
			BookID:        item.BookID,
			Title:         b.Title,
			Quantity:      item.Quantity,
			CurrentPrice:  b.Price,
			PriceSnapshot: item.PriceSnapshot,
			PriceChanged:  b.Price != item.PriceSnapshot,
			Stock:         b.Stock,
			StockStatus:   string(b.StockStatus()),
		})
		subtotal += b.Price * int64(item.Quantity)
	}

	return &GetCartResponse{
		Lines:    lines,
		Subtotal: subtotal,
	}, nil
}
