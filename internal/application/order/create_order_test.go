package order

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
	"github.com/luoyang/bookmall/internal/domain/order"
	"github.com/luoyang/bookmall/internal/domain/promotion"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
	"github.com/luoyang/bookmall/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// ========================================
// 内存仓储(模拟数据库的条件更新和事务回滚)
// ========================================

type fakeBookRepo struct {
	books map[uint]*book.Book
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	if b, ok := r.books[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, book.ErrBookNotFound
}

// DecrementStock 模拟 UPDATE ... SET stock = stock - ? WHERE stock >= ?
func (r *fakeBookRepo) DecrementStock(_ context.Context, id uint, qty int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock < qty {
		return book.ErrInsufficientStock
	}
	b.Stock -= qty
	return nil
}

func (r *fakeBookRepo) IncrementStock(_ context.Context, id uint, qty int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Stock += qty
	return nil
}

func (r *fakeBookRepo) Create(_ context.Context, _ *book.Book) error { return nil }
func (r *fakeBookRepo) FindByISBN(_ context.Context, _ string) (*book.Book, error) {
	return nil, book.ErrBookNotFound
}
func (r *fakeBookRepo) Update(_ context.Context, _ *book.Book) error { return nil }
func (r *fakeBookRepo) Delete(_ context.Context, _ uint) error       { return nil }
func (r *fakeBookRepo) List(_ context.Context, _ book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

type fakeCartRepo struct {
	items map[uint][]*cart.CartItem // userID → items
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID uint) ([]*cart.CartItem, error) {
	var list []*cart.CartItem
	for _, item := range r.items[userID] {
		cp := *item
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID uint) error {
	delete(r.items, userID)
	return nil
}

func (r *fakeCartRepo) FindByUserAndBook(_ context.Context, _, _ uint) (*cart.CartItem, error) {
	return nil, cart.ErrItemNotFound
}
func (r *fakeCartRepo) Save(_ context.Context, _ *cart.CartItem) error { return nil }
func (r *fakeCartRepo) Delete(_ context.Context, _, _ uint) error      { return nil }

type fakeOrderRepo struct {
	orders []*order.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	o.ID = uint(len(r.orders) + 1)
	cp := *o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uint) (*order.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			cp.Items = append([]order.OrderItem(nil), o.Items...)
			return &cp, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			cp := *o
			return &cp, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	for _, existing := range r.orders {
		if existing.ID == o.ID {
			existing.Status = o.Status
			existing.UpdatedAt = o.UpdatedAt
			return nil
		}
	}
	return order.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID uint, _, _ int) ([]*order.Order, int64, error) {
	var list []*order.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			cp := *o
			list = append(list, &cp)
		}
	}
	return list, int64(len(list)), nil
}

type fakePromoRepo struct {
	promos     map[string]*promotion.PromotionCode
	consumeErr error // 模拟并发下最后一个名额被抢走
}

func (r *fakePromoRepo) FindByCode(_ context.Context, code string) (*promotion.PromotionCode, error) {
	if p, ok := r.promos[code]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, promotion.ErrPromoNotFound
}

// ConsumeRedemption 模拟 UPDATE ... WHERE redeemed_count < max_redemptions
func (r *fakePromoRepo) ConsumeRedemption(_ context.Context, id uint) error {
	if r.consumeErr != nil {
		return r.consumeErr
	}
	for _, p := range r.promos {
		if p.ID == id {
			if p.MaxRedemptions != nil && p.RedeemedCount >= *p.MaxRedemptions {
				return promotion.ErrPromoExhausted
			}
			p.RedeemedCount++
			return nil
		}
	}
	return promotion.ErrPromoNotFound
}

func (r *fakePromoRepo) Create(_ context.Context, _ *promotion.PromotionCode) error { return nil }
func (r *fakePromoRepo) FindByID(_ context.Context, _ uint) (*promotion.PromotionCode, error) {
	return nil, promotion.ErrPromoNotFound
}
func (r *fakePromoRepo) Update(_ context.Context, _ *promotion.PromotionCode) error { return nil }

// fakeTxManager 模拟事务:fn返回error时把所有仓储状态恢复到事务前
type fakeTxManager struct {
	books  *fakeBookRepo
	carts  *fakeCartRepo
	orders *fakeOrderRepo
	promos *fakePromoRepo
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	restore := m.snapshot()
	if err := fn(ctx); err != nil {
		restore()
		return err
	}
	return nil
}

func (m *fakeTxManager) snapshot() func() {
	books := make(map[uint]*book.Book, len(m.books.books))
	for id, b := range m.books.books {
		cp := *b
		books[id] = &cp
	}

	carts := make(map[uint][]*cart.CartItem, len(m.carts.items))
	for uid, items := range m.carts.items {
		cps := make([]*cart.CartItem, len(items))
		for i, item := range items {
			cp := *item
			cps[i] = &cp
		}
		carts[uid] = cps
	}

	orders := make([]*order.Order, len(m.orders.orders))
	for i, o := range m.orders.orders {
		cp := *o
		cp.Items = append([]order.OrderItem(nil), o.Items...)
		orders[i] = &cp
	}

	var promos map[string]*promotion.PromotionCode
	if m.promos != nil {
		promos = make(map[string]*promotion.PromotionCode, len(m.promos.promos))
		for code, p := range m.promos.promos {
			cp := *p
			promos[code] = &cp
		}
	}

	return func() {
		m.books.books = books
		m.carts.items = carts
		m.orders.orders = orders
		if m.promos != nil {
			m.promos.promos = promos
		}
	}
}

// ========================================
// 测试夹具
// ========================================

func intPtr(v int) *int { return &v }

type checkoutFixture struct {
	books  *fakeBookRepo
	carts  *fakeCartRepo
	orders *fakeOrderRepo
	promos *fakePromoRepo
	uc     *CreateOrderUseCase
}

func newCheckoutFixture() *checkoutFixture {
	books := &fakeBookRepo{books: map[uint]*book.Book{
		1: {ID: 1, Title: "Go程序设计", Price: 5900, Stock: 10},
		2: {ID: 2, Title: "数据库系统概念", Price: 3900, Stock: 5},
		3: {ID: 3, Title: "计算机网络", Price: 4500, Stock: 1},
	}}
	carts := &fakeCartRepo{items: map[uint][]*cart.CartItem{}}
	orders := &fakeOrderRepo{}
	promos := &fakePromoRepo{promos: map[string]*promotion.PromotionCode{}}
	tx := &fakeTxManager{books: books, carts: carts, orders: orders, promos: promos}

	return &checkoutFixture{
		books:  books,
		carts:  carts,
		orders: orders,
		promos: promos,
		uc:     NewCreateOrderUseCase(orders, carts, books, promos, tx, nil),
	}
}

// ========================================
// 用例测试
// ========================================

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("正常下单", func(t *testing.T) {
		f := newCheckoutFixture()
		f.carts.items[7] = []*cart.CartItem{
			{UserID: 7, BookID: 1, Quantity: 2},
			{UserID: 7, BookID: 2, Quantity: 1},
		}

		resp, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7})
		require.NoError(t, err)

		// 2×59.00 + 1×39.00 = 157.00元
		assert.Equal(t, int64(15700), resp.Subtotal)
		assert.Equal(t, int64(0), resp.Discount)
		assert.Equal(t, int64(15700), resp.Total)
		assert.Equal(t, "157.00", resp.TotalYuan)
		assert.Equal(t, "PENDING", resp.Status)
		assert.NotEmpty(t, resp.OrderNo)

		// 库存已扣减
		assert.Equal(t, 8, f.books.books[1].Stock)
		assert.Equal(t, 4, f.books.books[2].Stock)
		// 购物车已清空
		assert.Empty(t, f.carts.items[7])
		// 订单已落库
		require.Len(t, f.orders.orders, 1)
		assert.Equal(t, order.OrderStatusPending, f.orders.orders[0].Status)
	})

	t.Run("空购物车拒绝下单", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7})
		assert.ErrorIs(t, err, order.ErrEmptyCart)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("某一行库存不足整单回滚", func(t *testing.T) {
		f := newCheckoutFixture()
		// 第1行可以扣,第3行库存只有1本买2本必然失败
		f.carts.items[7] = []*cart.CartItem{
			{UserID: 7, BookID: 1, Quantity: 2},
			{UserID: 7, BookID: 3, Quantity: 2},
		}

		_, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, apperrors.GetAppError(err).Code)
		assert.Contains(t, err.Error(), "计算机网络", "错误信息指明是哪本书不足")

		// 第1行已扣掉的2本必须退回
		assert.Equal(t, 10, f.books.books[1].Stock, "回滚后库存原样退回")
		assert.Equal(t, 1, f.books.books[3].Stock)
		// 购物车保留,订单不存在
		assert.Len(t, f.carts.items[7], 2)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("使用优惠码下单", func(t *testing.T) {
		f := newCheckoutFixture()
		f.promos.promos["SAVE10"] = &promotion.PromotionCode{
			ID:             1,
			Code:           "SAVE10",
			DiscountType:   promotion.DiscountTypePercent,
			DiscountValue:  10,
			MaxRedemptions: intPtr(100),
			RedeemedCount:  42,
			IsActive:       true,
		}
		f.carts.items[7] = []*cart.CartItem{
			{UserID: 7, BookID: 1, Quantity: 1},
		}

		resp, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7, PromoCode: "SAVE10"})
		require.NoError(t, err)

		assert.Equal(t, int64(5900), resp.Subtotal)
		assert.Equal(t, int64(590), resp.Discount)
		assert.Equal(t, int64(5310), resp.Total)
		assert.Equal(t, 43, f.promos.promos["SAVE10"].RedeemedCount, "名额在下单事务内消耗")
	})

	t.Run("名额被并发抢走时回滚库存", func(t *testing.T) {
		f := newCheckoutFixture()
		f.promos.promos["LAST1"] = &promotion.PromotionCode{
			ID:             2,
			Code:           "LAST1",
			DiscountType:   promotion.DiscountTypeFixed,
			DiscountValue:  500,
			MaxRedemptions: intPtr(10),
			RedeemedCount:  9,
			IsActive:       true,
		}
		// Validate时还有名额,Consume时被别的事务抢走
		f.promos.consumeErr = promotion.ErrPromoExhausted
		f.carts.items[7] = []*cart.CartItem{
			{UserID: 7, BookID: 1, Quantity: 1},
		}

		_, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7, PromoCode: "LAST1"})
		assert.ErrorIs(t, err, promotion.ErrPromoExhausted)

		// 已扣的库存退回,订单不存在
		assert.Equal(t, 10, f.books.books[1].Stock)
		assert.Empty(t, f.orders.orders)
	})

	t.Run("优惠码未达门槛拒绝下单", func(t *testing.T) {
		f := newCheckoutFixture()
		f.promos.promos["BIG50"] = &promotion.PromotionCode{
			ID:            3,
			Code:          "BIG50",
			DiscountType:  promotion.DiscountTypeFixed,
			DiscountValue: 5000,
			MinSubtotal:   100000, // 满1000元可用
			IsActive:      true,
		}
		f.carts.items[7] = []*cart.CartItem{
			{UserID: 7, BookID: 1, Quantity: 1},
		}

		_, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7, PromoCode: "BIG50"})
		assert.ErrorIs(t, err, promotion.ErrPromoMinSubtotal)
		assert.Equal(t, 10, f.books.books[1].Stock, "校验在扣库存之前,库存不动")
	})

	t.Run("结算价以当前目录价为准", func(t *testing.T) {
		f := newCheckoutFixture()
		// 加购时快照价是4900,之后涨价到5900,结算按5900
		f.carts.items[7] = []*cart.CartItem{
			{UserID: 7, BookID: 1, Quantity: 1, PriceSnapshot: 4900},
		}

		resp, err := f.uc.Execute(ctx, CreateOrderRequest{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, int64(5900), resp.Subtotal, "快照价只用于展示")
	})
}
