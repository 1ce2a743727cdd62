package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luoyang/bookmall/internal/domain/cart"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
// 说明:购物车按用户隔离,无全局竞争,普通CRUD即可;
// Clear在下单事务内调用,通过getDB参与事务
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// FindByUserAndBook 查找用户购物车中指定图书的条目
func (r *cartRepository) FindByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.CartItem, error) {
	var model CartItemModel
	err := getDB(ctx, r.db).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return toCartItemEntity(&model), nil
}

// ListByUser 查询用户的全部购物车条目
func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*cart.CartItem, error) {
	var models []CartItemModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	items := make([]*cart.CartItem, len(models))
	for i, model := range models {
		items[i] = toCartItemEntity(&model)
	}
	return items, nil
}

// Save 创建或更新条目
// 利用(user_id, book_id)唯一索引做UPSERT,避免先查再插的竞争窗口
func (r *cartRepository) Save(ctx context.Context, item *cart.CartItem) error {
	model := &CartItemModel{
		ID:            item.ID,
		UserID:        item.UserID,
		BookID:        item.BookID,
		Quantity:      item.Quantity,
		PriceSnapshot: item.PriceSnapshot,
		StockSnapshot: item.StockSnapshot,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}

	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity", "price_snapshot", "stock_snapshot", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "保存购物车失败")
	}

	item.ID = model.ID
	return nil
}

// Delete 删除单个条目
func (r *cartRepository) Delete(ctx context.Context, userID, bookID uint) error {
	result := getDB(ctx, r.db).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&CartItemModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// Clear 清空用户购物车(下单成功后在同一事务内调用)
func (r *cartRepository) Clear(ctx context.Context, userID uint) error {
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

// toCartItemEntity GORM模型 → 领域实体
func toCartItemEntity(model *CartItemModel) *cart.CartItem {
	return &cart.CartItem{
		ID:            model.ID,
		UserID:        model.UserID,
		BookID:        model.BookID,
		Quantity:      model.Quantity,
		PriceSnapshot: model.PriceSnapshot,
		StockSnapshot: model.StockSnapshot,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
