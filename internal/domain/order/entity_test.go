package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusTransitions 测试订单状态机
// PENDING → CONFIRMED | CANCELLED
// CONFIRMED → COMPLETED | CANCELLED
// COMPLETED / CANCELLED 为终态
func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"待确认→已确认", OrderStatusPending, OrderStatusConfirmed, true},
		{"待确认→已取消", OrderStatusPending, OrderStatusCancelled, true},
		{"待确认→已完成(跳级)", OrderStatusPending, OrderStatusCompleted, false},
		{"已确认→已完成", OrderStatusConfirmed, OrderStatusCompleted, true},
		{"已确认→已取消", OrderStatusConfirmed, OrderStatusCancelled, true},
		{"已确认→待确认(回退)", OrderStatusConfirmed, OrderStatusPending, false},
		{"已完成是终态", OrderStatusCompleted, OrderStatusCancelled, false},
		{"已取消是终态", OrderStatusCancelled, OrderStatusPending, false},
		{"已取消不能再取消", OrderStatusCancelled, OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.from}
			err := o.TransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, o.Status, "非法转换不应改变状态")
			}
		})
	}
}

func TestNewOrder(t *testing.T) {
	items := []OrderItem{
		{BookID: 1, Quantity: 2, Price: 5900},
		{BookID: 2, Quantity: 1, Price: 3900},
	}

	o := NewOrder("ORD1699248000123456", 7, items, 15700, 1570, "SAVE10")

	assert.Equal(t, OrderStatusPending, o.Status, "新订单初始状态为待确认")
	assert.Equal(t, int64(15700), o.Subtotal)
	assert.Equal(t, int64(1570), o.Discount)
	assert.Equal(t, int64(14130), o.Total, "实付=小计-折扣")
	assert.Equal(t, "SAVE10", o.PromoCode)
	assert.Equal(t, int64(15700), o.CalculateSubtotal(), "明细合计与小计一致")
}

func TestIsOwnedBy(t *testing.T) {
	o := &Order{UserID: 7}
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled,
	} {
		parsed, ok := ParseStatus(s.String())
		require.True(t, ok)
		assert.Equal(t, s, parsed)
	}

	_, ok := ParseStatus("SHIPPED")
	assert.False(t, ok)
}

func TestGenerateOrderNo(t *testing.T) {
	no := GenerateOrderNo()
	assert.True(t, strings.HasPrefix(no, "ORD"))
	assert.GreaterOrEqual(t, len(no), 19, "ORD+秒级时间戳+6位随机数")
}
