package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/luoyang/bookmall/internal/domain/store"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// transferRepository 调拨流水仓储实现(MySQL)
// 流水只追加,作为库存守恒的审计依据
type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository 创建调拨流水仓储
func NewTransferRepository(db *gorm.DB) store.TransferRepository {
	return &transferRepository{db: db}
}

// Append 追加一条调拨流水(在调拨事务内)
func (r *transferRepository) Append(ctx context.Context, t *store.Transfer) error {
	model := &TransferModel{
		FromWarehouseID: t.FromWarehouseID,
		ToStoreID:       t.ToStoreID,
		BookID:          t.BookID,
		Quantity:        t.Quantity,
		ActorID:         t.ActorID,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "记录调拨流水失败")
	}

	t.ID = model.ID
	t.CreatedAt = model.CreatedAt
	return nil
}

// ListByBook 按图书查询调拨历史
func (r *transferRepository) ListByBook(ctx context.Context, bookID uint, page, pageSize int) ([]*store.Transfer, int64, error) {
	var models []TransferModel
	var total int64

	query := getDB(ctx, r.db).Model(&TransferModel{}).Where("book_id = ?", bookID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询调拨流水总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询调拨流水失败")
	}

	transfers := make([]*store.Transfer, len(models))
	for i, model := range models {
		transfers[i] = &store.Transfer{
			ID:              model.ID,
			FromWarehouseID: model.FromWarehouseID,
			ToStoreID:       model.ToStoreID,
			BookID:          model.BookID,
			Quantity:        model.Quantity,
			ActorID:         model.ActorID,
			CreatedAt:       model.CreatedAt,
		}
	}

	return transfers, total, nil
}
