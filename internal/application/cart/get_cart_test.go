package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
)

// fakeCartService 内存购物车服务
type fakeCartService struct {
	items map[uint][]*cart.CartItem
}

func (s *fakeCartService) GetCart(_ context.Context, userID uint) ([]*cart.CartItem, error) {
	return s.items[userID], nil
}

func (s *fakeCartService) AddItem(_ context.Context, _, _ uint, _ int) (*cart.CartItem, error) {
	return nil, nil
}
func (s *fakeCartService) UpdateQuantity(_ context.Context, _, _ uint, _ int) (*cart.CartItem, error) {
	return nil, nil
}
func (s *fakeCartService) RemoveItem(_ context.Context, _, _ uint) error { return nil }

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

func (r *fakeBookRepo) Create(_ context.Context, _ *book.Book) error { return nil }
func (r *fakeBookRepo) FindByISBN(_ context.Context, _ string) (*book.Book, error) {
	return nil, book.ErrBookNotFound
}
func (r *fakeBookRepo) Update(_ context.Context, _ *book.Book) error { return nil }
func (r *fakeBookRepo) Delete(_ context.Context, _ uint) error       { return nil }
func (r *fakeBookRepo) List(_ context.Context, _ book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}
func (r *fakeBookRepo) DecrementStock(_ context.Context, _ uint, _ int) error { return nil }
func (r *fakeBookRepo) IncrementStock(_ context.Context, _ uint, _ int) error { return nil }

func TestGetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("附带当前价格和库存状态", func(t *testing.T) {
		svc := &fakeCartService{items: map[uint][]*cart.CartItem{
			7: {
				{UserID: 7, BookID: 1, Quantity: 2, PriceSnapshot: 4900}, // 加购后涨价了
				{UserID: 7, BookID: 2, Quantity: 1, PriceSnapshot: 3900},
			},
		}}
		books := &fakeBookRepo{books: map[uint]*book.Book{
			1: {ID: 1, Title: "Go程序设计", Price: 5900, Stock: 10},
			2: {ID: 2, Title: "数据库系统概念", Price: 3900, Stock: 3},
		}}
		uc := NewGetCartUseCase(svc, books)

		resp, err := uc.Execute(ctx, 7)
		require.NoError(t, err)
		require.Len(t, resp.Lines, 2)

		// 第1行价格有变动
		assert.Equal(t, int64(5900), resp.Lines[0].CurrentPrice)
		assert.True(t, resp.Lines[0].PriceChanged)
		assert.Equal(t, "IN_STOCK", resp.Lines[0].StockStatus)

		// 第2行价格没变,库存紧张
		assert.False(t, resp.Lines[1].PriceChanged)
		assert.Equal(t, "LOW_STOCK", resp.Lines[1].StockStatus)

		// 小计按当前目录价:2×59 + 1×39 = 157元
		assert.Equal(t, int64(15700), resp.Subtotal)
	})

	t.Run("已下架图书跳过不阻塞", func(t *testing.T) {
		svc := &fakeCartService{items: map[uint][]*cart.CartItem{
			7: {
				{UserID: 7, BookID: 1, Quantity: 1},
				{UserID: 7, BookID: 99, Quantity: 1}, // 已下架
			},
		}}
		books := &fakeBookRepo{books: map[uint]*book.Book{
			1: {ID: 1, Title: "Go程序设计", Price: 5900, Stock: 10},
		}}
		uc := NewGetCartUseCase(svc, books)

		resp, err := uc.Execute(ctx, 7)
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, uint(1), resp.Lines[0].BookID)
	})

	t.Run("空购物车", func(t *testing.T) {
		uc := NewGetCartUseCase(
			&fakeCartService{items: map[uint][]*cart.CartItem{}},
			&fakeBookRepo{books: map[uint]*book.Book{}},
		)

		resp, err := uc.Execute(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
		assert.Equal(t, int64(0), resp.Subtotal)
	})
}
