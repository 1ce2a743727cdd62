package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClampQuantity 测试数量钳制规则
func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name    string
		desired int
		stock   int
		expect  int
	}{
		{"库存充足取期望值", 3, 10, 3},
		{"恰好等于库存", 10, 10, 10},
		{"超过库存钳到库存", 15, 10, 10},
		{"库存为0钳到0", 5, 0, 0},
		{"负数钳到0", -2, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ClampQuantity(tt.desired, tt.stock))
		})
	}
}
