package repository

import (
	"context"

	"gorm.io/gorm"

	"libraryhub/internal/model"
)

// FineRepository defines fine persistence operations.
type FineRepository interface {
	Create(ctx context.Context, fine *model.Fine) error
	List(ctx context.Context) ([]model.Fine, error)
	ListUnpaidByUser(ctx context.Context, userID uint) ([]model.Fine, error)
	MarkPaid(ctx context.Context, id uint) (bool, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

type fineRepository struct {
	db *gorm.DB
}

// NewFineRepository creates a new fine repository.
func NewFineRepository(db *gorm.DB) FineRepository {
	return &fineRepository{db: db}
}

// Create records a new fine.
func (r *fineRepository) Create(ctx context.Context, fine *model.Fine) error {
	return r.db.WithContext(ctx).Create(fine).Error
}

// List returns all fines, newest first, with the fined member loaded.
func (r *fineRepository) List(ctx context.Context) ([]model.Fine, error) {
	var fines []model.Fine
	if err := r.db.WithContext(ctx).Preload("User").Order("id DESC").Find(&fines).Error; err != nil {
		return nil, err
	}
	return fines, nil
}

func (r *fineRepository) ListUnpaidByUser(ctx context.Context, userID uint) ([]model.Fine, error) {
	var fines []model.Fine
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND paid = ?", userID, false).
		Order("id").
		Find(&fines).Error; err != nil {
		return nil, err
	}
	return fines, nil
}

// MarkPaid settles an unpaid fine and reports whether one was found.
func (r *fineRepository) MarkPaid(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Fine{}).
		Where("id = ? AND paid = ?", id, false).
		Update("paid", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *fineRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Fine{}).Error
}
