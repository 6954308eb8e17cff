package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/cache"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

const (
	catalogCacheKey      = "catalog:books"
	catalogGenerationKey = "catalog:books:generation"
)

// BookInput describes a book to shelve.
type BookInput struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Location string `json:"location"`
}

// ErrEmptyImport is returned when an import carries no usable books.
var ErrEmptyImport = errors.New("no books to import")

// CatalogService handles the book inventory.
type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	AddBook(ctx context.Context, title, author, location string) (*model.Book, error)
	ImportBooks(ctx context.Context, books []BookInput) (int, error)
	BookHistory(ctx context.Context, id uint) ([]model.BorrowRecord, error)
	RemoveBook(ctx context.Context, id uint) error
}

type catalogService struct {
	store    *repository.Store
	cache    *cache.Client
	cacheTTL time.Duration
}

// NewCatalogService creates a new catalog service. The full book list is cached for cacheTTL
// and dropped on every change.
func NewCatalogService(store *repository.Store, cache *cache.Client, cacheTTL time.Duration) CatalogService {
	return &catalogService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ListBooks returns the whole catalog. Cached lists are keyed by the catalog generation
// read before the database scan, so a scan that raced a change is stored under a
// generation nobody reads any more.
func (s *catalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	key := catalogListKey(ctx, s.cache)

	var cached []model.Book
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	books, err := s.store.Books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if s.cacheTTL > 0 {
		_ = s.cache.SetJSON(ctx, key, books, s.cacheTTL)
	}
	return books, nil
}

// BookHistory returns every borrow record for a book, open and closed.
func (s *catalogService) BookHistory(ctx context.Context, id uint) ([]model.BorrowRecord, error) {
	if _, err := findBook(ctx, s.store.Books, id); err != nil {
		return nil, err
	}
	records, err := s.store.Borrows.ListByBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list book history: %w", err)
	}
	return records, nil
}

// AddBook puts a new, available book on the shelf.
func (s *catalogService) AddBook(ctx context.Context, title, author, location string) (*model.Book, error) {
	book := &model.Book{
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Location:  strings.TrimSpace(location),
		Available: true,
	}
	if err := s.store.Books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	invalidateCatalog(ctx, s.cache)

	slog.InfoContext(ctx, "book added", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// ImportBooks shelves every entry that has a title, author and location in one
// transaction and returns how many were added.
func (s *catalogService) ImportBooks(ctx context.Context, in []BookInput) (int, error) {
	books := make([]model.Book, 0, len(in))
	for _, b := range in {
		book := model.Book{
			Title:     strings.TrimSpace(b.Title),
			Author:    strings.TrimSpace(b.Author),
			Location:  strings.TrimSpace(b.Location),
			Available: true,
		}
		if book.Title == "" || book.Author == "" || book.Location == "" {
			slog.WarnContext(ctx, "skipping incomplete book", "title", b.Title)
			continue
		}
		books = append(books, book)
	}
	if len(books) == 0 {
		return 0, ErrEmptyImport
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		for i := range books {
			if err := tx.Books.Create(ctx, &books[i]); err != nil {
				return fmt.Errorf("create book %q: %w", books[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	invalidateCatalog(ctx, s.cache)

	slog.InfoContext(ctx, "books imported", "count", len(books))
	return len(books), nil
}

// RemoveBook deletes a book together with its whole borrow history.
func (s *catalogService) RemoveBook(ctx context.Context, id uint) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Books.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrBookNotFound
			}
			return fmt.Errorf("find book: %w", err)
		}
		if err := tx.Borrows.DeleteByBook(ctx, id); err != nil {
			return fmt.Errorf("delete borrow records: %w", err)
		}
		if err := tx.Books.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateCatalog(ctx, s.cache)

	slog.InfoContext(ctx, "book removed", "book_id", id)
	return nil
}

func catalogListKey(ctx context.Context, c *cache.Client) string {
	gen, _ := c.Get(ctx, catalogGenerationKey)
	if gen == nil {
		gen = []byte("0")
	}
	return catalogCacheKey + ":" + string(gen)
}

// invalidateCatalog moves readers to a new generation. Must run after the change commits.
func invalidateCatalog(ctx context.Context, c *cache.Client) {
	_ = c.Delete(ctx, catalogListKey(ctx, c))
	_, _ = c.Incr(ctx, catalogGenerationKey)
}
