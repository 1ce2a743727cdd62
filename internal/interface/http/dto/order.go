package dto

// CreateOrderRequest HTTP下单请求
// 订单内容以服务端购物车为准,客户端只传优惠码和支付回执
type CreateOrderRequest struct {
	PromoCode  string `json:"promo_code" binding:"omitempty,max=32" example:"SAVE10"`
	ReceiptURL string `json:"receipt_url" binding:"omitempty,url,max=500" example:"https://pay.example.com/receipt/abc"`
}

// OrderItemResponse HTTP订单明细响应
type OrderItemResponse struct {
	BookID    uint   `json:"book_id" example:"1"`
	Quantity  int    `json:"quantity" example:"2"`
	Price     int64  `json:"price" example:"5900"` // 下单时单价(分)
	PriceYuan string `json:"price_yuan" example:"59.00"`
}

// OrderResponse HTTP订单响应
type OrderResponse struct {
	OrderID    uint                `json:"order_id" example:"1"`
	OrderNo    string              `json:"order_no" example:"ORD1699248000123456"`
	Subtotal   int64               `json:"subtotal" example:"11800"`
	Discount   int64               `json:"discount" example:"1180"`
	Total      int64               `json:"total" example:"10620"`
	TotalYuan  string              `json:"total_yuan" example:"106.20"`
	PromoCode  string              `json:"promo_code,omitempty" example:"SAVE10"`
	ReceiptURL string              `json:"receipt_url,omitempty"`
	Status     string              `json:"status" example:"PENDING"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  string              `json:"created_at" example:"2024-01-15 10:30:00"`
}

// UpdateOrderStatusRequest HTTP订单状态更新请求
// 取消不走这里(取消涉及库存回补,有独立接口)
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED COMPLETED" example:"CONFIRMED"`
}

// ListOrdersRequest HTTP订单列表请求
type ListOrdersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
