package repository

import (
	"context"

	"gorm.io/gorm"

	"libraryhub/internal/model"
)

// BorrowRecordRepository defines loan persistence operations.
type BorrowRecordRepository interface {
	Create(ctx context.Context, record *model.BorrowRecord) error
	FindOpen(ctx context.Context, userID, bookID uint) ([]model.BorrowRecord, error)
	ListOpenByUser(ctx context.Context, userID uint) ([]model.BorrowRecord, error)
	ListByBook(ctx context.Context, bookID uint) ([]model.BorrowRecord, error)
	SaveReturn(ctx context.Context, record *model.BorrowRecord) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	DeleteByBook(ctx context.Context, bookID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type borrowRecordRepository struct {
	db *gorm.DB
}

// NewBorrowRecordRepository creates a new borrow record repository.
func NewBorrowRecordRepository(db *gorm.DB) BorrowRecordRepository {
	return &borrowRecordRepository{db: db}
}

// Create inserts a new borrow record.
func (r *borrowRecordRepository) Create(ctx context.Context, record *model.BorrowRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindOpen returns the records userID still holds for bookID.
func (r *borrowRecordRepository) FindOpen(ctx context.Context, userID, bookID uint) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListOpenByUser returns userID's open records with their books loaded.
func (r *borrowRecordRepository) ListOpenByUser(ctx context.Context, userID uint) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND return_date IS NULL", userID).
		Order("borrow_date").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByBook returns every record for bookID, open or closed.
func (r *borrowRecordRepository) ListByBook(ctx context.Context, bookID uint) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SaveReturn persists a record's return_date. A record already closed in the database
// keeps its first date.
func (r *borrowRecordRepository) SaveReturn(ctx context.Context, record *model.BorrowRecord) error {
	return r.db.WithContext(ctx).Model(record).
		Where("return_date IS NULL").
		Update("return_date", record.ReturnDate).Error
}

func (r *borrowRecordRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.BorrowRecord{}).Error
}

func (r *borrowRecordRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&model.BorrowRecord{}).Error
}

func (r *borrowRecordRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.BorrowRecord{}).Error
}
