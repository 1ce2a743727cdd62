package order

import (
	"context"

	"github.com/luoyang/bookmall/internal/domain/order"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// GetOrderUseCase 订单查询用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// OrderDetail 订单详情DTO
type OrderDetail struct {
	OrderID    uint                    `json:"order_id"`
	OrderNo    string                  `json:"order_no"`
	UserID     uint                    `json:"user_id"`
	Subtotal   int64                   `json:"subtotal"`
	Discount   int64                   `json:"discount"`
	Total      int64                   `json:"total"`
	TotalYuan  string                  `json:"total_yuan"`
	PromoCode  string                  `json:"promo_code,omitempty"`
	ReceiptURL string                  `json:"receipt_url,omitempty"`
	Status     string                  `json:"status"`
	Items      []CreateOrderItemResult `json:"items"`
	CreatedAt  string                  `json:"created_at"`
}

// GetByID 根据ID查询订单
// 普通用户只能看自己的订单,越权一律按"不存在"处理,不泄露订单归属
func (uc *GetOrderUseCase) GetByID(ctx context.Context, orderID, userID uint, isAdmin bool) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !o.IsOwnedBy(userID) {
		return nil, apperrors.ErrOrderNotFound
	}

	return toOrderDetail(o), nil
}

// ListByUserResponse 订单列表响应DTO
type ListByUserResponse struct {
	List     []*OrderDetail `json:"list"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ListByUser 查询用户订单列表(分页)
func (uc *GetOrderUseCase) ListByUser(ctx context.Context, userID uint, page, pageSize int) (*ListByUserResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*OrderDetail, len(orders))
	for i, o := range orders {
		list[i] = toOrderDetail(o)
	}

	return &ListByUserResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// toOrderDetail 实体 → 详情DTO
func toOrderDetail(o *order.Order) *OrderDetail {
	items := make([]CreateOrderItemResult, len(o.Items))
	for i, item := range o.Items {
		items[i] = CreateOrderItemResult{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &OrderDetail{
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		Subtotal:   o.Subtotal,
		Discount:   o.Discount,
		Total:      o.Total,
		TotalYuan:  formatPrice(o.Total),
		PromoCode:  o.PromoCode,
		ReceiptURL: o.ReceiptURL,
		Status:     o.Status.String(),
		Items:      items,
		CreatedAt:  o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
