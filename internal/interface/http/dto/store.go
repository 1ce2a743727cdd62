package dto

// CreateStoreRequest HTTP建点请求
type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,max=100" example:"中关村门店"`
	Kind    string `json:"kind" binding:"required,oneof=store warehouse" example:"store"`
	Address string `json:"address" binding:"max=255" example:"北京市海淀区中关村大街1号"`
}

// StoreResponse HTTP门店响应
type StoreResponse struct {
	ID      uint   `json:"id" example:"1"`
	Name    string `json:"name" example:"中关村门店"`
	Kind    string `json:"kind" example:"store"`
	Address string `json:"address" example:"北京市海淀区中关村大街1号"`
}

// SetStoreStockRequest HTTP设置网点库存请求(线下盘点入口)
type SetStoreStockRequest struct {
	Stock             int `json:"stock" binding:"min=0" example:"50"`
	LowStockThreshold int `json:"low_stock_threshold" binding:"min=0" example:"5"`
}

// StoreStockResponse HTTP网点库存响应
type StoreStockResponse struct {
	StoreID           uint   `json:"store_id" example:"1"`
	BookID            uint   `json:"book_id" example:"1"`
	Stock             int    `json:"stock" example:"50"`
	LowStockThreshold int    `json:"low_stock_threshold" example:"5"`
	LowStock          bool   `json:"low_stock" example:"false"`
	UpdatedAt         string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// TransferStockRequest HTTP调拨请求
// 只允许仓库→门店
type TransferStockRequest struct {
	FromWarehouseID uint `json:"from_warehouse_id" binding:"required" example:"1"`
	ToStoreID       uint `json:"to_store_id" binding:"required" example:"2"`
	BookID          uint `json:"book_id" binding:"required" example:"1"`
	Quantity        int  `json:"quantity" binding:"required,min=1" example:"5"`
}

// TransferResponse HTTP调拨响应
type TransferResponse struct {
	TransferID      uint   `json:"transfer_id" example:"1"`
	FromWarehouseID uint   `json:"from_warehouse_id" example:"1"`
	ToStoreID       uint   `json:"to_store_id" example:"2"`
	BookID          uint   `json:"book_id" example:"1"`
	Quantity        int    `json:"quantity" example:"5"`
	CreatedAt       string `json:"created_at" example:"2024-01-15 10:30:00"`
}
