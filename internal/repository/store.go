package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle.
type Store struct {
	Users   UserRepository
	Books   BookRepository
	Borrows BorrowRecordRepository
	Fines   FineRepository

	db *gorm.DB
}

// NewStore builds every repository over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:   NewUserRepository(db),
		Books:   NewBookRepository(db),
		Borrows: NewBorrowRecordRepository(db),
		Fines:   NewFineRepository(db),
		db:      db,
	}
}

// WithTransaction executes fn with a Store bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}
