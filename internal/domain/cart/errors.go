package cart

import (
	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrItemNotFound 购物车条目不存在
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeCartItemNotFound, "购物车中没有这本书")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
)
