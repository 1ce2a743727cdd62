package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luoyang/bookmall/internal/domain/store"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// storeStockRepository 网点库存仓储实现(MySQL)
// 设计说明:与图书线上库存同一手法——单条条件更新,
// 数据库行级原子性保证库存永不为负,调拨与销售天然串行化
type storeStockRepository struct {
	db *gorm.DB
}

// NewStoreStockRepository 创建网点库存仓储
func NewStoreStockRepository(db *gorm.DB) store.StockRepository {
	return &storeStockRepository{db: db}
}

// FindByStoreAndBook 查询(店,书)库存行
// 无行返回nil(视作库存0),不报错
func (r *storeStockRepository) FindByStoreAndBook(ctx context.Context, storeID, bookID uint) (*store.StoreStock, error) {
	var model StoreStockModel
	err := getDB(ctx, r.db).
		Where("store_id = ? AND book_id = ?", storeID, bookID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询网点库存失败")
	}

	return toStoreStockEntity(&model), nil
}

// ListByStore 查询网点的全部库存行
func (r *storeStockRepository) ListByStore(ctx context.Context, storeID uint) ([]*store.StoreStock, error) {
	var models []StoreStockModel
	err := getDB(ctx, r.db).
		Where("store_id = ?", storeID).
		Order("book_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询网点库存失败")
	}

	stocks := make([]*store.StoreStock, len(models))
	for i, model := range models {
		stocks[i] = toStoreStockEntity(&model)
	}
	return stocks, nil
}

// Upsert 设置库存行(不存在则创建)
// 管理员手工设置/线下盘点入口
func (r *storeStockRepository) Upsert(ctx context.Context, ss *store.StoreStock) error {
	model := &StoreStockModel{
		ID:                ss.ID,
		StoreID:           ss.StoreID,
		BookID:            ss.BookID,
		Stock:             ss.Stock,
		LowStockThreshold: ss.LowStockThreshold,
	}

	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stock", "low_stock_threshold", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "设置网点库存失败")
	}

	ss.ID = model.ID
	ss.CreatedAt = model.CreatedAt
	ss.UpdatedAt = model.UpdatedAt
	return nil
}

// DecrementStock 扣减网点库存(原子条件更新)
// UPDATE store_stocks SET stock = stock - ?
//
//	WHERE store_id = ? AND book_id = ? AND stock >= ?
func (r *storeStockRepository) DecrementStock(ctx context.Context, storeID, bookID uint, qty int) error {
	if qty <= 0 {
		return store.ErrInvalidQuantity
	}

	result := getDB(ctx, r.db).Model(&StoreStockModel{}).
		Where("store_id = ? AND book_id = ? AND stock >= ?", storeID, bookID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if result.Error != nil {
		if isLockConflict(result.Error) {
			return translateLockConflict(result.Error)
		}
		return apperrors.Wrap(result.Error, "扣减网点库存失败")
	}

	if result.RowsAffected == 0 {
		// 无行或余量不够,对调用方都是"仓库库存不足"
		return store.ErrInsufficientStock
	}

	return nil
}

// IncrementStock 增加网点库存,行不存在则以qty创建
// 利用唯一索引UPSERT,首次调拨时懒创建库存行
func (r *storeStockRepository) IncrementStock(ctx context.Context, storeID, bookID uint, qty int) error {
	if qty <= 0 {
		return store.ErrInvalidQuantity
	}

	model := &StoreStockModel{
		StoreID: storeID,
		BookID:  bookID,
		Stock:   qty,
	}

	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"stock": gorm.Expr("stock + ?", qty),
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "增加网点库存失败")
	}

	return nil
}

// toStoreStockEntity GORM模型 → 领域实体
func toStoreStockEntity(model *StoreStockModel) *store.StoreStock {
	return &store.StoreStock{
		ID:                model.ID,
		StoreID:           model.StoreID,
		BookID:            model.BookID,
		Stock:             model.Stock,
		LowStockThreshold: model.LowStockThreshold,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
