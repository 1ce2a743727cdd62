package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAuthorize 测试角色→能力判定
func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		cap     Capability
		allowed bool
	}{
		{"顾客不能上架图书", "customer", CapManageBooks, false},
		{"顾客不能调拨", "customer", CapTransferStock, false},
		{"员工可以上架图书", "staff", CapManageBooks, true},
		{"员工可以调拨", "staff", CapTransferStock, true},
		{"员工可以推进订单", "staff", CapManageOrders, true},
		{"员工不能建门店", "staff", CapManageStores, false},
		{"员工不能管理优惠码", "staff", CapManagePromotions, false},
		{"管理员全量能力", "admin", CapManageStores, true},
		{"管理员可以管理优惠码", "admin", CapManagePromotions, true},
		{"未知角色一律拒绝", "superuser", CapManageBooks, false},
		{"空角色一律拒绝", "", CapManageBooks, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, Authorize(tt.role, tt.cap))
		})
	}
}
