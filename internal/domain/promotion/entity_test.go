package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

// TestValidate 测试优惠码校验顺序和折扣计算
func TestValidate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

	// SAVE10:满20元打9折,最多优惠5元
	newSave10 := func() *PromotionCode {
		return &PromotionCode{
			ID:                1,
			Code:              "SAVE10",
			DiscountType:      DiscountTypePercent,
			DiscountValue:     10,
			MinSubtotal:       2000,
			MaxDiscountAmount: int64Ptr(500),
			IsActive:          true,
		}
	}

	t.Run("60元订单折扣触顶", func(t *testing.T) {
		// 10% × 6000 = 600,超过上限500,取500
		p := newSave10()
		discount, err := p.Validate(6000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(500), discount)
	})

	t.Run("30元订单正常打折", func(t *testing.T) {
		p := newSave10()
		discount, err := p.Validate(3000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(300), discount)
	})

	t.Run("15元订单未达门槛", func(t *testing.T) {
		p := newSave10()
		_, err := p.Validate(1500, now)
		assert.ErrorIs(t, err, ErrPromoMinSubtotal)
	})

	t.Run("停用的码被拒绝", func(t *testing.T) {
		p := newSave10()
		p.IsActive = false
		_, err := p.Validate(6000, now)
		assert.ErrorIs(t, err, ErrPromoInactive)
	})

	t.Run("未开始的码被拒绝", func(t *testing.T) {
		p := newSave10()
		starts := now.Add(time.Hour)
		p.StartsAt = &starts
		_, err := p.Validate(6000, now)
		assert.ErrorIs(t, err, ErrPromoNotStarted)
	})

	t.Run("过期的码被拒绝", func(t *testing.T) {
		p := newSave10()
		ends := now.Add(-time.Hour)
		p.EndsAt = &ends
		_, err := p.Validate(6000, now)
		assert.ErrorIs(t, err, ErrPromoExpired)
	})

	t.Run("名额用完被拒绝", func(t *testing.T) {
		p := newSave10()
		p.MaxRedemptions = intPtr(100)
		p.RedeemedCount = 100
		_, err := p.Validate(6000, now)
		assert.ErrorIs(t, err, ErrPromoExhausted)
	})

	t.Run("停用优先于过期", func(t *testing.T) {
		// 校验顺序:停用 → 未开始 → 已过期 → 门槛 → 名额
		p := newSave10()
		p.IsActive = false
		ends := now.Add(-time.Hour)
		p.EndsAt = &ends
		_, err := p.Validate(6000, now)
		assert.ErrorIs(t, err, ErrPromoInactive)
	})

	t.Run("校验不消耗名额", func(t *testing.T) {
		p := newSave10()
		p.MaxRedemptions = intPtr(100)
		p.RedeemedCount = 42
		for i := 0; i < 10; i++ {
			_, err := p.Validate(6000, now)
			require.NoError(t, err)
		}
		assert.Equal(t, 42, p.RedeemedCount, "Validate绝不消耗名额")
	})
}

// TestFixedDiscount 测试固定立减的钳制规则
func TestFixedDiscount(t *testing.T) {
	now := time.Now()

	t.Run("立减不超过小计", func(t *testing.T) {
		// 立减50元但订单只有30元,折扣钳到30元,实付0
		p := &PromotionCode{
			DiscountType:  DiscountTypeFixed,
			DiscountValue: 5000,
			IsActive:      true,
		}
		discount, err := p.Validate(3000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), discount)
	})

	t.Run("立减受上限约束", func(t *testing.T) {
		p := &PromotionCode{
			DiscountType:      DiscountTypeFixed,
			DiscountValue:     2000,
			MaxDiscountAmount: int64Ptr(1000),
			IsActive:          true,
		}
		discount, err := p.Validate(5000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), discount)
	})
}

func TestHasQuota(t *testing.T) {
	unlimited := &PromotionCode{}
	assert.False(t, unlimited.HasQuota())

	limited := &PromotionCode{MaxRedemptions: intPtr(10)}
	assert.True(t, limited.HasQuota())
}
