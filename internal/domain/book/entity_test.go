package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStockStatus 测试库存状态派生规则
// 边界:0→缺货,1~5→紧张,>5→有货
func TestStockStatus(t *testing.T) {
	tests := []struct {
		name   string
		stock  int
		expect StockStatus
	}{
		{"库存0为缺货", 0, StockStatusOut},
		{"负库存视作缺货", -1, StockStatusOut},
		{"库存1为紧张", 1, StockStatusLow},
		{"库存5为紧张(边界)", 5, StockStatusLow},
		{"库存6为有货(边界)", 6, StockStatusIn},
		{"库存100为有货", 100, StockStatusIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{Stock: tt.stock}
			assert.Equal(t, tt.expect, b.StockStatus())
		})
	}
}

func TestHasStock(t *testing.T) {
	b := &Book{Stock: 3}

	assert.True(t, b.HasStock(1))
	assert.True(t, b.HasStock(3))
	assert.False(t, b.HasStock(4))
	assert.False(t, b.HasStock(0), "数量必须为正")
	assert.False(t, b.HasStock(-1))
}

func TestUpdatePrice(t *testing.T) {
	b := NewBook("9787111213826", "Go程序设计", "张三", "机械工业出版社", 5900, 10, "", "")

	t.Run("正常改价", func(t *testing.T) {
		err := b.UpdatePrice(6900)
		assert.NoError(t, err)
		assert.Equal(t, int64(6900), b.Price)
	})

	t.Run("价格必须大于0", func(t *testing.T) {
		assert.ErrorIs(t, b.UpdatePrice(0), ErrInvalidPrice)
		assert.ErrorIs(t, b.UpdatePrice(-100), ErrInvalidPrice)
		assert.Equal(t, int64(6900), b.Price, "非法改价不应生效")
	})
}
