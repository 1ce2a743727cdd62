package store

import (
	"context"
	"errors"

	"github.com/luoyang/bookmall/internal/domain/book"
	"github.com/luoyang/bookmall/internal/domain/store"
	"github.com/luoyang/bookmall/internal/infrastructure/event"
	"github.com/luoyang/bookmall/pkg/metrics"
	"github.com/luoyang/bookmall/pkg/tracing"
)

// TransferStockUseCase 仓库→门店调拨用例
//
// 一次调拨在同一事务内完成三件事:
// 1. 扣减仓库库存(条件更新,不足即中止)
// 2. 增加门店库存(行不存在则懒创建)
// 3. 追加调拨流水
// 事务保证守恒:扣多少就加多少,失败时两边都不动。
// 并发调拨抢同一批库存时由数据库条件更新裁决,总量永不多调。
type TransferStockUseCase struct {
	storeRepo    store.Repository
	stockRepo    store.StockRepository
	transferRepo store.TransferRepository
	bookRepo     book.Repository
	txManager    TxManager
	events       *event.Publisher
}

// TxManager 事务边界抽象,生产实现是mysql.TxManager
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewTransferStockUseCase 创建调拨用例
func NewTransferStockUseCase(
	storeRepo store.Repository,
	stockRepo store.StockRepository,
	transferRepo store.TransferRepository,
	bookRepo book.Repository,
	txManager TxManager,
	events *event.Publisher,
) *TransferStockUseCase {
	return &TransferStockUseCase{
		storeRepo:    storeRepo,
		stockRepo:    stockRepo,
		transferRepo: transferRepo,
		bookRepo:     bookRepo,
		txManager:    txManager,
		events:       events,
	}
}

// TransferStockRequest 调拨请求DTO
type TransferStockRequest struct {
	FromWarehouseID uint
	ToStoreID       uint
	BookID          uint
	Quantity        int
	ActorID         uint // 操作人(从JWT提取)
}

// TransferStockResponse 调拨响应DTO
type TransferStockResponse struct {
	TransferID      uint   `json:"transfer_id"`
	FromWarehouseID uint   `json:"from_warehouse_id"`
	ToStoreID       uint   `json:"to_store_id"`
	BookID          uint   `json:"book_id"`
	Quantity        int    `json:"quantity"`
	CreatedAt       string `json:"created_at"`
}

// Execute 执行调拨
func (uc *TransferStockUseCase) Execute(ctx context.Context, req TransferStockRequest) (*TransferStockResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "bookmall", "TransferStock")
	defer span.End()

	if req.Quantity <= 0 {
		return nil, store.ErrInvalidQuantity
	}

	// 校验双方身份:只允许仓库→门店
	from, err := uc.storeRepo.FindByID(ctx, req.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	if !from.IsWarehouse() {
		return nil, store.ErrNotWarehouse
	}

	to, err := uc.storeRepo.FindByID(ctx, req.ToStoreID)
	if err != nil {
		return nil, err
	}
	if to.IsWarehouse() {
		return nil, store.ErrNotStore
	}

	// 图书必须存在(流水要可追溯)
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	var transfer *store.Transfer
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 扣仓库:条件更新,余量不足时整个事务中止
		if err := uc.stockRepo.DecrementStock(txCtx, req.FromWarehouseID, req.BookID, req.Quantity); err != nil {
			return err
		}

		// 加门店:行不存在则以调拨量创建
		if err := uc.stockRepo.IncrementStock(txCtx, req.ToStoreID, req.BookID, req.Quantity); err != nil {
			return err
		}

		transfer = &store.Transfer{
			FromWarehouseID: req.FromWarehouseID,
			ToStoreID:       req.ToStoreID,
			BookID:          req.BookID,
			Quantity:        req.Quantity,
			ActorID:         req.ActorID,
		}
		return uc.transferRepo.Append(txCtx, transfer)
	})

	if err != nil {
		result := "failure"
		if errors.Is(err, store.ErrInsufficientStock) {
			result = "insufficient"
		}
		metrics.IncCounterVec(metrics.TransfersTotal, map[string]string{"result": result})
		return nil, err
	}

	metrics.IncCounterVec(metrics.TransfersTotal, map[string]string{"result": "success"})
	uc.events.StockTransferred(event.StockTransferredEvent{
		TransferID:      transfer.ID,
		FromWarehouseID: transfer.FromWarehouseID,
		ToStoreID:       transfer.ToStoreID,
		BookID:          transfer.BookID,
		Quantity:        transfer.Quantity,
		CreatedAt:       transfer.CreatedAt,
	})

	// 调拨后检查仓库余量,跌破阈值发补货提醒
	uc.notifyLowStock(ctx, req.FromWarehouseID, req.BookID)

	return &TransferStockResponse{
		TransferID:      transfer.ID,
		FromWarehouseID: transfer.FromWarehouseID,
		ToStoreID:       transfer.ToStoreID,
		BookID:          transfer.BookID,
		Quantity:        transfer.Quantity,
		CreatedAt:       transfer.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// notifyLowStock 低库存提醒(尽力而为,失败不影响调拨结果)
func (uc *TransferStockUseCase) notifyLowStock(ctx context.Context, storeID, bookID uint) {
	ss, err := uc.stockRepo.FindByStoreAndBook(ctx, storeID, bookID)
	if err != nil || ss == nil {
		return
	}
	if ss.LowStockThreshold > 0 && ss.IsLowStock() {
		uc.events.LowStock(event.LowStockEvent{
			StoreID:   ss.StoreID,
			BookID:    ss.BookID,
			Stock:     ss.Stock,
			Threshold: ss.LowStockThreshold,
		})
	}
}
