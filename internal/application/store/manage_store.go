package store

import (
	"context"
	"time"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/store"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// ManageStoreUseCase 门店/仓库管理用例(管理员)
// 建点、手工设置网点库存(线下盘点入口)、查询网点库存
type ManageStoreUseCase struct {
	storeRepo store.Repository
	stockRepo store.StockRepository
	bookRepo  book.Repository
}

// NewManageStoreUseCase 创建门店管理用例
func NewManageStoreUseCase(
	storeRepo store.Repository,
	stockRepo store.StockRepository,
	bookRepo book.Repository,
) *ManageStoreUseCase {
	return &ManageStoreUseCase{
		storeRepo: storeRepo,
		stockRepo: stockRepo,
		bookRepo:  bookRepo,
	}
}

// CreateStoreRequest 建点请求DTO
type CreateStoreRequest struct {
	Name    string
	Kind    string // store | warehouse
	Address string
}

// StoreResult 门店DTO
type StoreResult struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Address string `json:"address"`
}

// CreateStore 创建门店/仓库
func (uc *ManageStoreUseCase) CreateStore(ctx context.Context, req CreateStoreRequest) (*StoreResult, error) {
	kind := store.StoreKind(req.Kind)
	if kind != store.KindStore && kind != store.KindWarehouse {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidParams, "网点类型必须是store或warehouse")
	}

	s := &store.Store{
		Name:    req.Name,
		Kind:    kind,
		Address: req.Address,
	}
	if err := uc.storeRepo.Create(ctx, s); err != nil {
		return nil, err
	}

	return &StoreResult{
		ID:      s.ID,
		Name:    s.Name,
		Kind:    string(s.Kind),
		Address: s.Address,
	}, nil
}

// SetStockRequest 设置网点库存请求DTO
type SetStockRequest struct {
	StoreID           uint
	BookID            uint
	Stock             int
	LowStockThreshold int
}

// StoreStockResult 网点库存DTO
type StoreStockResult struct {
	StoreID           uint   `json:"store_id"`
	BookID            uint   `json:"book_id"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	LowStock          bool   `json:"low_stock"`
	UpdatedAt         string `json:"updated_at"`
}

// SetStock 手工设置网点库存(不存在则创建)
// 这是线下盘点的入口,直接覆盖数量,不走增减
func (uc *ManageStoreUseCase) SetStock(ctx context.Context, req SetStockRequest) (*StoreStockResult, error) {
	if req.Stock < 0 {
		return nil, store.ErrInvalidStock
	}

	if _, err := uc.storeRepo.FindByID(ctx, req.StoreID); err != nil {
		return nil, err
	}
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	ss := &store.StoreStock{
		StoreID:           req.StoreID,
		BookID:            req.BookID,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		UpdatedAt:         time.Now(),
	}
	if err := uc.stockRepo.Upsert(ctx, ss); err != nil {
		return nil, err
	}

	return toStoreStockResult(ss), nil
}

// ListStock 查询网点的全部库存行
func (uc *ManageStoreUseCase) ListStock(ctx context.Context, storeID uint) ([]*StoreStockResult, error) {
	if _, err := uc.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}

	stocks, err := uc.stockRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	results := make([]*StoreStockResult, len(stocks))
	for i, ss := range stocks {
		results[i] = toStoreStockResult(ss)
	}
	return results, nil
}

// toStoreStockResult 实体 → DTO
func toStoreStockResult(ss *store.StoreStock) *StoreStockResult {
	return &StoreStockResult{
		StoreID:           ss.StoreID,
		BookID:            ss.BookID,
		Stock:             ss.Stock,
		LowStockThreshold: ss.LowStockThreshold,
		LowStock:          ss.IsLowStock(),
		UpdatedAt:         ss.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
