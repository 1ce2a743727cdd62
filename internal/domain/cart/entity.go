package cart

import (
	"time"
)

// CartItem 购物车条目
// 设计说明:
// 1. (UserID, BookID)联合唯一,一个用户对一本书只有一条记录
// 2. 购物车是服务端权威状态,客户端本地购物车只是缓存,
//    数量、价格一律以服务端为准
// 3. PriceSnapshot/StockSnapshot是加购时的展示快照,仅用于前端提示
//    "价格有变动",结算金额始终按当前目录价重新计算
// 4. 购物车对真实库存没有任何权威性:加购时的数量钳制只是减少
//    明显无效的请求,下单时由数据库条件更新做最终裁决
type CartItem struct {
	ID            uint
	UserID        uint
	BookID        uint
	Quantity      int   // 期望购买数量,>=1
	PriceSnapshot int64 // 加购时单价(分),仅展示用
	StockSnapshot int   // 加购时库存,仅展示用
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClampQuantity 把期望数量钳制到[0, stock]
// 展示性钳制:避免购物车里出现明显超过库存的数量,
// 但不构成库存承诺
func ClampQuantity(desired, stock int) int {
	if desired < 0 {
		return 0
	}
	if desired > stock {
		return stock
	}
	return desired
}
