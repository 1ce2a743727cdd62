package dto

// AddCartItemRequest HTTP加购请求
type AddCartItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// UpdateCartItemRequest HTTP修改数量请求
// quantity=0等价于删除该条目
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0" example:"3"`
}

// CartItemResponse HTTP购物车条目响应
// 数量可能被钳制到当前库存,小于请求值时前端应提示
type CartItemResponse struct {
	BookID        uint   `json:"book_id" example:"1"`
	Quantity      int    `json:"quantity" example:"2"`
	PriceSnapshot int64  `json:"price_snapshot" example:"5900"` // 加购时单价(分)
	StockSnapshot int    `json:"stock_snapshot" example:"10"`   // 加购时库存
	Removed       bool   `json:"removed,omitempty"`             // 数量钳制为0时条目被删除
	UpdatedAt     string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// CartLineResponse HTTP购物车行响应(附图书当前状态)
type CartLineResponse struct {
	BookID        uint   `json:"book_id" example:"1"`
	Title         string `json:"title" example:"Go语言实战"`
	Quantity      int    `json:"quantity" example:"2"`
	CurrentPrice  int64  `json:"current_price" example:"5900"` // 当前目录价(分)
	PriceSnapshot int64  `json:"price_snapshot" example:"6900"`
	PriceChanged  bool   `json:"price_changed" example:"true"`
	Stock         int    `json:"stock" example:"3"`
	StockStatus   string `json:"stock_status" example:"LOW_STOCK"`
}

// CartResponse HTTP购物车响应
type CartResponse struct {
	Lines        []CartLineResponse `json:"lines"`
	Subtotal     int64              `json:"subtotal" example:"11800"` // 按当前目录价(分)
	SubtotalYuan string             `json:"subtotal_yuan" example:"118.00"`
}
