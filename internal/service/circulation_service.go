package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

// CirculationService handles borrowing and returning books.
type CirculationService interface {
	Borrow(ctx context.Context, username string, bookID uint) (*model.BorrowRecord, error)
	Return(ctx context.Context, username string, bookID uint) error
	OpenBorrows(ctx context.Context, username string) ([]model.BorrowRecord, error)
}

type circulationService struct {
	store        *repository.Store
	cache        *cache.Client
	returnPolicy config.ReturnPolicy
	now          func() time.Time
}

// NewCirculationService creates a new circulation service.
func NewCirculationService(store *repository.Store, cache *cache.Client, returnPolicy config.ReturnPolicy) CirculationService {
	return &circulationService{
		store:        store,
		cache:        cache,
		returnPolicy: returnPolicy,
		now:          time.Now,
	}
}

// Borrow marks the book unavailable and opens a record for username, atomically.
// Of two concurrent borrows of one book exactly one succeeds.
func (s *circulationService) Borrow(ctx context.Context, username string, bookID uint) (*model.BorrowRecord, error) {
	var record *model.BorrowRecord
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		user, err := findUser(ctx, tx.Users, username)
		if err != nil {
			return err
		}
		book, err := findBook(ctx, tx.Books, bookID)
		if err != nil {
			return err
		}
		if !book.Available {
			return apperr.ErrBookUnavailable
		}

		changed, err := tx.Books.SetAvailable(ctx, book.ID, false)
		if err != nil {
			return fmt.Errorf("mark book unavailable: %w", err)
		}
		if !changed {
			return apperr.ErrBookUnavailable
		}

		record = &model.BorrowRecord{
			UserID:     user.ID,
			BookID:     book.ID,
			BorrowDate: s.now(),
		}
		if err := tx.Borrows.Create(ctx, record); err != nil {
			return fmt.Errorf("create borrow record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidateCatalog(ctx, s.cache)

	slog.InfoContext(ctx, "book borrowed", "username", username, "book_id", bookID, "record_id", record.ID)
	return record, nil
}

// Return makes the book available again and closes the caller's open records for it.
// Only the member holding the book can return it.
func (s *circulationService) Return(ctx context.Context, username string, bookID uint) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		user, err := findUser(ctx, tx.Users, username)
		if err != nil {
			return err
		}
		book, err := findBook(ctx, tx.Books, bookID)
		if err != nil {
			return err
		}
		if book.Available {
			return apperr.ErrNotBorrowed
		}

		open, err := tx.Borrows.FindOpen(ctx, user.ID, book.ID)
		if err != nil {
			return fmt.Errorf("find open records: %w", err)
		}
		if len(open) == 0 {
			return apperr.ErrNotBorrowed
		}

		changed, err := tx.Books.SetAvailable(ctx, book.ID, true)
		if err != nil {
			return fmt.Errorf("mark book available: %w", err)
		}
		if !changed {
			return apperr.ErrNotBorrowed
		}

		if s.returnPolicy == config.ReturnPolicyDelete {
			ids := make([]uint, 0, len(open))
			for _, r := range open {
				ids = append(ids, r.ID)
			}
			if err := tx.Borrows.DeleteByIDs(ctx, ids); err != nil {
				return fmt.Errorf("delete borrow records: %w", err)
			}
			return nil
		}

		now := s.now()
		for i := range open {
			open[i].Close(now)
			if err := tx.Borrows.SaveReturn(ctx, &open[i]); err != nil {
				return fmt.Errorf("close borrow record %d: %w", open[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateCatalog(ctx, s.cache)

	slog.InfoContext(ctx, "book returned", "username", username, "book_id", bookID, "policy", s.returnPolicy)
	return nil
}

// OpenBorrows lists the books username currently holds.
func (s *circulationService) OpenBorrows(ctx context.Context, username string) ([]model.BorrowRecord, error) {
	user, err := findUser(ctx, s.store.Users, username)
	if err != nil {
		return nil, err
	}
	records, err := s.store.Borrows.ListOpenByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list open records: %w", err)
	}
	return records, nil
}

func findUser(ctx context.Context, users repository.UserRepository, username string) (*model.User, error) {
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func findBook(ctx context.Context, books repository.BookRepository, id uint) (*model.Book, error) {
	book, err := books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}
