package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoyang/bookmall/internal/domain/book"
)

// fakeCartRepo 内存购物车仓储
type fakeCartRepo struct {
	items map[uint]map[uint]*CartItem // userID → bookID → item
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uint]map[uint]*CartItem)}
}

func (r *fakeCartRepo) FindByUserAndBook(_ context.Context, userID, bookID uint) (*CartItem, error) {
	if item, ok := r.items[userID][bookID]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, ErrItemNotFound
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID uint) ([]*CartItem, error) {
	var list []*CartItem
	for _, item := range r.items[userID] {
		cp := *item
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeCartRepo) Save(_ context.Context, item *CartItem) error {
	if r.items[item.UserID] == nil {
		r.items[item.UserID] = make(map[uint]*CartItem)
	}
	cp := *item
	r.items[item.UserID][item.BookID] = &cp
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, userID, bookID uint) error {
	if _, ok := r.items[userID][bookID]; !ok {
		return ErrItemNotFound
	}
	delete(r.items[userID], bookID)
	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID uint) error {
	delete(r.items, userID)
	return nil
}

// fakeBookRepo 内存图书仓储(购物车测试只用到FindByID)
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

func (r *fakeBookRepo) Create(_ context.Context, _ *book.Book) error    { return nil }
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

func newTestService(books map[uint]*book.Book) (Service, *fakeCartRepo) {
	repo := newFakeCartRepo()
	return NewService(repo, &fakeBookRepo{books: books}), repo
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("正常加购", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Title: "Go程序设计", Price: 5900, Stock: 10},
		})

		item, err := svc.AddItem(ctx, 7, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, int64(5900), item.PriceSnapshot)
		assert.Equal(t, 10, item.StockSnapshot)
	})

	t.Run("超过库存钳制到库存量", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 4},
		})

		item, err := svc.AddItem(ctx, 7, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 4, item.Quantity, "数量钳到当前库存")
	})

	t.Run("重复加购累加并钳制", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 5},
		})

		_, err := svc.AddItem(ctx, 7, 1, 3)
		require.NoError(t, err)

		item, err := svc.AddItem(ctx, 7, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity, "3+4钳到库存5")
	})

	t.Run("无库存图书不能加购", func(t *testing.T) {
		svc, repo := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 0},
		})

		_, err := svc.AddItem(ctx, 7, 1, 1)
		assert.ErrorIs(t, err, book.ErrInsufficientStock)
		assert.Empty(t, repo.items[7], "钳到0不落库")
	})

	t.Run("不存在的图书", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{})
		_, err := svc.AddItem(ctx, 7, 99, 1)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("数量必须为正", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 10},
		})
		_, err := svc.AddItem(ctx, 7, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("正常修改", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 10},
		})
		_, err := svc.AddItem(ctx, 7, 1, 2)
		require.NoError(t, err)

		item, err := svc.UpdateQuantity(ctx, 7, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
	})

	t.Run("改为0等价于删除", func(t *testing.T) {
		svc, repo := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 10},
		})
		_, err := svc.AddItem(ctx, 7, 1, 2)
		require.NoError(t, err)

		item, err := svc.UpdateQuantity(ctx, 7, 1, 0)
		require.NoError(t, err)
		assert.Nil(t, item, "返回nil表示条目已删除")
		assert.Empty(t, repo.items[7])
	})

	t.Run("超过库存钳制", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 3},
		})
		_, err := svc.AddItem(ctx, 7, 1, 1)
		require.NoError(t, err)

		item, err := svc.UpdateQuantity(ctx, 7, 1, 99)
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("条目不存在", func(t *testing.T) {
		svc, _ := newTestService(map[uint]*book.Book{
			1: {ID: 1, Price: 5900, Stock: 10},
		})
		_, err := svc.UpdateQuantity(ctx, 7, 1, 2)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(map[uint]*book.Book{
		1: {ID: 1, Price: 5900, Stock: 10},
	})

	_, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, 7, 1))
	assert.Empty(t, repo.items[7])

	assert.ErrorIs(t, svc.RemoveItem(ctx, 7, 1), ErrItemNotFound)
}
