package promotion

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/cart"
	"github.com/luoyang/bookmall/internal/domain/promotion"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
	"github.com/luoyang/bookmall/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// ========================================
// 内存仓储
// ========================================

type fakePromoRepo struct {
	promos map[string]*promotion.PromotionCode
}

func (r *fakePromoRepo) Create(_ context.Context, p *promotion.PromotionCode) error {
	if _, ok := r.promos[p.Code]; ok {
		return promotion.ErrCodeDuplicate
	}
	p.ID = uint(len(r.promos) + 1)
	cp := *p
	r.promos[p.Code] = &cp
	return nil
}

func (r *fakePromoRepo) FindByCode(_ context.Context, code string) (*promotion.PromotionCode, error) {
	if p, ok := r.promos[code]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, promotion.ErrPromoNotFound
}

func (r *fakePromoRepo) FindByID(_ context.Context, id uint) (*promotion.PromotionCode, error) {
	for _, p := range r.promos {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, promotion.ErrPromoNotFound
}

func (r *fakePromoRepo) Update(_ context.Context, p *promotion.PromotionCode) error {
	cp := *p
	r.promos[p.Code] = &cp
	return nil
}

func (r *fakePromoRepo) ConsumeRedemption(_ context.Context, id uint) error {
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

type fakeCartRepo struct {
	items map[uint][]*cart.CartItem
}

func (r *fakeCartRepo) ListByUser(_ context.Context, userID uint) ([]*cart.CartItem, error) {
	return r.items[userID], nil
}

func (r *fakeCartRepo) FindByUserAndBook(_ context.Context, _, _ uint) (*cart.CartItem, error) {
	return nil, cart.ErrItemNotFound
}
func (r *fakeCartRepo) Save(_ context.Context, _ *cart.CartItem) error { return nil }
func (r *fakeCartRepo) Delete(_ context.Context, _, _ uint) error      { return nil }
func (r *fakeCartRepo) Clear(_ context.Context, _ uint) error          { return nil }

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

// ========================================
// 校验用例测试
// ========================================

func TestValidatePromotion(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*ValidatePromotionUseCase, *fakePromoRepo) {
		promos := &fakePromoRepo{promos: map[string]*promotion.PromotionCode{
			"SAVE10": {
				ID:                1,
				Code:              "SAVE10",
				DiscountType:      promotion.DiscountTypePercent,
				DiscountValue:     10,
				MinSubtotal:       2000,
				MaxDiscountAmount: int64Ptr(500),
				MaxRedemptions:    intPtr(100),
				RedeemedCount:     42,
				IsActive:          true,
			},
		}}
		carts := &fakeCartRepo{items: map[uint][]*cart.CartItem{
			7: {
				{UserID: 7, BookID: 1, Quantity: 2}, // 2×59.00
			},
		}}
		books := &fakeBookRepo{books: map[uint]*book.Book{
			1: {ID: 1, Title: "Go程序设计", Price: 5900, Stock: 10},
		}}
		return NewValidatePromotionUseCase(promos, carts, books), promos
	}

	t.Run("结算页预览折扣", func(t *testing.T) {
		uc, promos := newFixture()

		resp, err := uc.Execute(ctx, ValidatePromotionRequest{UserID: 7, Code: "SAVE10"})
		require.NoError(t, err)

		// 小计118元,10%=11.80元超上限5元,取5元
		assert.Equal(t, int64(11800), resp.Subtotal)
		assert.Equal(t, int64(500), resp.Discount)
		assert.Equal(t, int64(11300), resp.Total)
		// 预览不占名额
		assert.Equal(t, 42, promos.promos["SAVE10"].RedeemedCount)
	})

	t.Run("空购物车不能预览", func(t *testing.T) {
		uc, _ := newFixture()

		_, err := uc.Execute(ctx, ValidatePromotionRequest{UserID: 8, Code: "SAVE10"})
		assert.Equal(t, apperrors.ErrCodeEmptyCart, apperrors.GetAppError(err).Code)
	})

	t.Run("优惠码不存在", func(t *testing.T) {
		uc, _ := newFixture()

		_, err := uc.Execute(ctx, ValidatePromotionRequest{UserID: 7, Code: "NOPE"})
		assert.ErrorIs(t, err, promotion.ErrPromoNotFound)
	})

	t.Run("停用的码被拒绝", func(t *testing.T) {
		uc, promos := newFixture()
		promos.promos["SAVE10"].IsActive = false

		_, err := uc.Execute(ctx, ValidatePromotionRequest{UserID: 7, Code: "SAVE10"})
		assert.ErrorIs(t, err, promotion.ErrPromoInactive)
	})
}

// ========================================
// 创建/编辑用例测试
// ========================================

func TestSavePromotion(t *testing.T) {
	ctx := context.Background()

	t.Run("创建优惠码", func(t *testing.T) {
		promos := &fakePromoRepo{promos: map[string]*promotion.PromotionCode{}}
		uc := NewSavePromotionUseCase(promos)

		resp, err := uc.Create(ctx, SavePromotionRequest{
			Code:          "SAVE10",
			DiscountType:  "PERCENT",
			DiscountValue: 10,
			MinSubtotal:   2000,
			IsActive:      true,
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, 0, resp.RedeemedCount)
	})

	t.Run("编辑不能改已用次数", func(t *testing.T) {
		promos := &fakePromoRepo{promos: map[string]*promotion.PromotionCode{
			"SAVE10": {
				ID:            1,
				Code:          "SAVE10",
				DiscountType:  promotion.DiscountTypePercent,
				DiscountValue: 10,
				RedeemedCount: 42,
				IsActive:      true,
			},
		}}
		uc := NewSavePromotionUseCase(promos)

		resp, err := uc.Update(ctx, SavePromotionRequest{
			Code:          "SAVE10",
			DiscountType:  "PERCENT",
			DiscountValue: 20,
			IsActive:      false,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(20), resp.DiscountValue)
		assert.False(t, resp.IsActive)
		assert.Equal(t, 42, resp.RedeemedCount, "已用次数原样保留")
	})

	t.Run("百分比折扣范围1-100", func(t *testing.T) {
		uc := NewSavePromotionUseCase(&fakePromoRepo{promos: map[string]*promotion.PromotionCode{}})

		_, err := uc.Create(ctx, SavePromotionRequest{
			Code: "BAD", DiscountType: "PERCENT", DiscountValue: 0, IsActive: true,
		})
		assert.ErrorIs(t, err, promotion.ErrInvalidDiscount)

		_, err = uc.Create(ctx, SavePromotionRequest{
			Code: "BAD", DiscountType: "PERCENT", DiscountValue: 101, IsActive: true,
		})
		assert.ErrorIs(t, err, promotion.ErrInvalidDiscount)
	})

	t.Run("非法优惠类型", func(t *testing.T) {
		uc := NewSavePromotionUseCase(&fakePromoRepo{promos: map[string]*promotion.PromotionCode{}})

		_, err := uc.Create(ctx, SavePromotionRequest{
			Code: "BAD", DiscountType: "BOGO", DiscountValue: 1, IsActive: true,
		})
		assert.ErrorIs(t, err, promotion.ErrInvalidDiscount)
	})

	t.Run("失效时间不能早于生效时间", func(t *testing.T) {
		uc := NewSavePromotionUseCase(&fakePromoRepo{promos: map[string]*promotion.PromotionCode{}})

		starts := time.Now()
		ends := starts.Add(-time.Hour)
		_, err := uc.Create(ctx, SavePromotionRequest{
			Code: "BAD", DiscountType: "FIXED", DiscountValue: 500,
			StartsAt: &starts, EndsAt: &ends, IsActive: true,
		})
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	})

	t.Run("重复创建被拒绝", func(t *testing.T) {
		promos := &fakePromoRepo{promos: map[string]*promotion.PromotionCode{}}
		uc := NewSavePromotionUseCase(promos)

		req := SavePromotionRequest{Code: "SAVE10", DiscountType: "FIXED", DiscountValue: 500, IsActive: true}
		_, err := uc.Create(ctx, req)
		require.NoError(t, err)

		_, err = uc.Create(ctx, req)
		assert.ErrorIs(t, err, promotion.ErrCodeDuplicate)
	})
}
