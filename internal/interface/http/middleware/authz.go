package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/luoyang/bookmall/pkg/response"
)

// Capability 操作能力
// 权限模型:角色 → 能力集合。所有路由的权限判定收敛到
// 唯一一个Authorize函数,不在各Handler里零散写角色判断
type Capability string

const (
	CapManageBooks      = Capability("manage_books")      // 上架/改价/补货/删除
	CapManageStores     = Capability("manage_stores")     // 建点/设置网点库存
	CapTransferStock    = Capability("transfer_stock")    // 仓库→门店调拨
	CapManagePromotions = Capability("manage_promotions") // 创建/编辑优惠码
	CapManageOrders     = Capability("manage_orders")     // 订单状态推进
)

// 角色 → 能力表
// customer没有任何后台能力;staff负责日常运营;admin全量
var roleCapabilities = map[string]map[Capability]bool{
	"staff": {
		CapManageBooks:   true,
		CapTransferStock: true,
		CapManageOrders:  true,
	},
	"admin": {
		CapManageBooks:      true,
		CapManageStores:     true,
		CapTransferStock:    true,
		CapManagePromotions: true,
		CapManageOrders:     true,
	},
}

// Authorize 判定角色是否具备能力(唯一的权限判定入口)
func Authorize(role string, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return caps[cap]
}

// RequireCapability 能力授权中间件
// 必须挂在RequireAuth之后,角色从认证中间件注入的Context读取
func RequireCapability(cap Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authorize(GetRole(c), cap) {
			response.ErrorWithCode(c, 40104, "无权限访问")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IsAdmin 当前用户是否为管理员(订单可见性判定用)
func IsAdmin(c *gin.Context) bool {
	role := GetRole(c)
	return role == "admin" || role == "staff"
}
