package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/luoyang/bookmall/pkg/errors"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:错误信息包含"Duplicate entry"
	return strings.Contains(err.Error(), "Duplicate entry")
}

// isLockConflict 判断是否为行锁竞争类错误
// MySQL错误码:
// - 1205: Lock wait timeout exceeded
// - 1213: Deadlock found when trying to get lock
// 这两类错误是瞬时的,重试可能成功,与"库存不足"严格区分
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Lock wait timeout exceeded") ||
		strings.Contains(msg, "Deadlock found")
}

// translateLockConflict 锁竞争错误 → 并发冲突(可重试)
func translateLockConflict(err error) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeConcurrencyConflict,
		Message: apperrors.ErrConcurrencyConflict.Message,
		Err:     err,
	}
}
