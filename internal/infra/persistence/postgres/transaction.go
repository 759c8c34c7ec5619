// Package postgres keeps cart snapshots in PostgreSQL through GORM.
package postgres

import (
	"context"

	"github.com/lsegpor/Forniture4U-sub000/internal/domain/repository"
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"gorm.io/gorm"
)

type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager returns a TransactionManager whose repositories share one GORM transaction.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise, panics included.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(carts repository.CartRepository) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCartRepository(tx))
	})
	if err != nil {
		return errors.Wrap(err, "cart snapshot transaction")
	}

	return nil
}
