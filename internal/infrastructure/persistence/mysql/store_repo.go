package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/luoyang/bookmall/internal/domain/store"
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// storeRepository 门店/仓库仓储实现(MySQL)
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓储
func NewStoreRepository(db *gorm.DB) store.Repository {
	return &storeRepository{db: db}
}

// FindByID 根据ID查找门店/仓库
func (r *storeRepository) FindByID(ctx context.Context, id uint) (*store.Store, error) {
	var model StoreModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrStoreNotFound
		}
		return nil, apperrors.Wrap(err, "查询门店失败")
	}

	return &store.Store{
		ID:        model.ID,
		Name:      model.Name,
		Kind:      store.StoreKind(model.Kind),
		Address:   model.Address,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// Create 创建门店/仓库
func (r *storeRepository) Create(ctx context.Context, s *store.Store) error {
	model := &StoreModel{
		Name:    s.Name,
		Kind:    string(s.Kind),
		Address: s.Address,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建门店失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}
