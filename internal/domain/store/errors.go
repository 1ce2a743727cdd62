package store

import (
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// 门店库存领域错误定义
var (
	// ErrStoreNotFound 门店或仓库不存在
	ErrStoreNotFound = apperrors.ErrStoreNotFound

	// ErrNotWarehouse 调出方不是仓库
	ErrNotWarehouse = apperrors.New(apperrors.ErrCodeInvalidParams, "调出方必须是仓库")

	// ErrNotStore 调入方不是门店
	ErrNotStore = apperrors.New(apperrors.ErrCodeInvalidParams, "调入方必须是门店")

	// ErrInvalidQuantity 调拨数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "调拨数量必须大于0")

	// ErrInvalidStock 库存不能为负数
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInsufficientStock 仓库库存不足
	ErrInsufficientStock = apperrors.ErrInsufficientStock
)
