package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务在context中的键(非导出类型,避免与其他包冲突)
type txKey struct{}

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法,事务边界在应用层显式声明,
//    绝不依赖ORM每次调用的隐式事务
// 2. 通过context传递事务DB(避免全局变量)
// 3. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内所有通过getDB(ctx)取DB的Repository操作都在同一事务中执行
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := bookRepo.DecrementStock(ctx, bookID, qty); err != nil {
//	        return err // 自动回滚
//	    }
//	    return orderRepo.Create(ctx, order) // nil则提交
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
	// 锁等待超时/死锁统一转成并发冲突,提示调用方可重试
	if err != nil && isLockConflict(err) {
		return translateLockConflict(err)
	}
	return err
}

// getDB 从context获取事务DB,没有事务时使用默认DB
func getDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
