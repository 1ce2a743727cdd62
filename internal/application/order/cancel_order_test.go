package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
	"github.com/luoyang/bookmall/internal/domain/order"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

type cancelFixture struct {
	books  *fakeBookRepo
	orders *fakeOrderRepo
	uc     *CancelOrderUseCase
}

// newCancelFixture 准备一个已扣过库存的订单
func newCancelFixture(status order.OrderStatus) *cancelFixture {
	books := &fakeBookRepo{books: map[uint]*book.Book{
		1: {ID: 1, Title: "Go程序设计", Price: 5900, Stock: 8},  // 下单时扣了2本
		2: {ID: 2, Title: "数据库系统概念", Price: 3900, Stock: 4}, // 下单时扣了1本
	}}
	orders := &fakeOrderRepo{orders: []*order.Order{
		{
			ID:      1,
			OrderNo: "ORD1699248000123456",
			UserID:  7,
			Status:  status,
			Items: []order.OrderItem{
				{BookID: 1, Quantity: 2, Price: 5900},
				{BookID: 2, Quantity: 1, Price: 3900},
			},
		},
	}}
	carts := &fakeCartRepo{items: map[uint][]*cart.CartItem{}}
	tx := &fakeTxManager{books: books, carts: carts, orders: orders}

	return &cancelFixture{
		books:  books,
		orders: orders,
		uc:     NewCancelOrderUseCase(orders, books, tx, nil),
	}
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("本人取消待确认订单", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusPending)

		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 7})
		require.NoError(t, err)

		assert.Equal(t, order.OrderStatusCancelled, f.orders.orders[0].Status)
		// 库存按下单数量原样回补
		assert.Equal(t, 10, f.books.books[1].Stock)
		assert.Equal(t, 5, f.books.books[2].Stock)
	})

	t.Run("已确认订单也可取消", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusConfirmed)

		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusCancelled, f.orders.orders[0].Status)
	})

	t.Run("已完成订单不可取消", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusCompleted)

		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 7})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		// 状态和库存都不动
		assert.Equal(t, order.OrderStatusCompleted, f.orders.orders[0].Status)
		assert.Equal(t, 8, f.books.books[1].Stock)
	})

	t.Run("重复取消被拒绝", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusPending)

		require.NoError(t, f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 7}))
		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 7})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		// 库存只回补一次
		assert.Equal(t, 10, f.books.books[1].Stock)
	})

	t.Run("他人订单按不存在处理", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusPending)

		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 8})
		// 不返回403,避免泄露订单归属
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, apperrors.GetAppError(err).Code)
		assert.Equal(t, order.OrderStatusPending, f.orders.orders[0].Status)
	})

	t.Run("管理员可取消任意订单", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusPending)

		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 1, UserID: 99, IsAdmin: true})
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusCancelled, f.orders.orders[0].Status)
	})

	t.Run("订单不存在", func(t *testing.T) {
		f := newCancelFixture(order.OrderStatusPending)

		err := f.uc.Execute(ctx, CancelOrderRequest{OrderID: 99, UserID: 7})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	newUC := func(status order.OrderStatus) (*UpdateStatusUseCase, *fakeOrderRepo) {
		orders := &fakeOrderRepo{orders: []*order.Order{
			{ID: 1, UserID: 7, Status: status},
		}}
		return NewUpdateStatusUseCase(orders), orders
	}

	t.Run("待确认推进到已确认", func(t *testing.T) {
		uc, orders := newUC(order.OrderStatusPending)

		err := uc.Execute(ctx, UpdateStatusRequest{OrderID: 1, Status: "CONFIRMED"})
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusConfirmed, orders.orders[0].Status)
	})

	t.Run("跳级转换被拒绝", func(t *testing.T) {
		uc, orders := newUC(order.OrderStatusPending)

		err := uc.Execute(ctx, UpdateStatusRequest{OrderID: 1, Status: "COMPLETED"})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
		assert.Equal(t, order.OrderStatusPending, orders.orders[0].Status)
	})

	t.Run("取消必须走取消接口", func(t *testing.T) {
		uc, _ := newUC(order.OrderStatusPending)

		err := uc.Execute(ctx, UpdateStatusRequest{OrderID: 1, Status: "CANCELLED"})
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	})

	t.Run("未知状态", func(t *testing.T) {
		uc, _ := newUC(order.OrderStatusPending)

		err := uc.Execute(ctx, UpdateStatusRequest{OrderID: 1, Status: "SHIPPED"})
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	})
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()

	orders := &fakeOrderRepo{orders: []*order.Order{
		{
			ID: 1, OrderNo: "ORD1", UserID: 7, Subtotal: 5900, Total: 5900,
			Status: order.OrderStatusPending,
			Items:  []order.OrderItem{{BookID: 1, Quantity: 1, Price: 5900}},
		},
	}}
	uc := NewGetOrderUseCase(orders)

	t.Run("本人查询", func(t *testing.T) {
		detail, err := uc.GetByID(ctx, 1, 7, false)
		require.NoError(t, err)
		assert.Equal(t, "ORD1", detail.OrderNo)
		assert.Equal(t, "59.00", detail.TotalYuan)
	})

	t.Run("他人订单按不存在处理", func(t *testing.T) {
		_, err := uc.GetByID(ctx, 1, 8, false)
		assert.Equal(t, apperrors.ErrCodeOrderNotFound, apperrors.GetAppError(err).Code)
	})

	t.Run("管理员可查任意订单", func(t *testing.T) {
		detail, err := uc.GetByID(ctx, 1, 99, true)
		require.NoError(t, err)
		assert.Equal(t, uint(1), detail.OrderID)
	})
}
