package services

import "gorm.io/gorm"

// TxRunner 在单个数据库事务中执行fn，fn返回错误则整体回滚
type TxRunner func(fn func(tx *gorm.DB) error) error

// GormTxRunner 基于gorm的事务执行器
func GormTxRunner(db *gorm.DB) TxRunner {
	return func(fn func(tx *gorm.DB) error) error {
		return db.Transaction(fn)
	}
}

// NoopTxRunner 直接执行fn，不开启事务，供测试使用
func NoopTxRunner() TxRunner {
	return func(fn func(tx *gorm.DB) error) error {
		return fn(nil)
	}
}
