package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInsufficientStock, "《%s》库存不足", "Go程序设计")

	assert.Equal(t, ErrCodeInsufficientStock, err.Code)
	assert.Equal(t, "《Go程序设计》库存不足", err.Message)
	// 补充上下文后errors.Is仍按错误码成立
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestWrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, "数据库不可用")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.ErrorIs(t, err, inner, "Unwrap链保留内部错误")
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		appErr := GetAppError(ErrBookNotFound)
		assert.Equal(t, ErrCodeBookNotFound, appErr.Code)
	})

	t.Run("普通error转内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
	})
}
