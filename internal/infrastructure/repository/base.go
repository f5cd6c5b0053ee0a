package repository

import (
	"context"

	domainRepo "github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// baseRepository resolves the connection for a call: the transaction carried
// by ctx when there is one, the pool otherwise.
type baseRepository struct {
	db *gorm.DB
}

func (r baseRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

type transactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a transaction manager over db
func NewTransactionManager(db *gorm.DB) domainRepo.TransactionManager {
	return &transactionManager{db: db}
}

// WithinTransaction joins the transaction already in ctx or opens a new one.
func (m *transactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
