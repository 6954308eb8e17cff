package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/config"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

func TestCatalogService_AddAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.store, env.cache, time.Minute)
	ctx := context.Background()

	book, err := svc.AddBook(ctx, " Dune ", "Herbert", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.Available)

	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.True(t, env.redis.Exists(catalogCacheKey+":0"))

	_, err = svc.AddBook(ctx, "Emma", "Austen", "C1")
	require.NoError(t, err)
	assert.False(t, env.redis.Exists(catalogCacheKey+":0"), "adding a book drops the cached list")
	gen, err := env.redis.Get(catalogGenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	books, err = svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestCatalogService_ListServesCache(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.store, env.cache, time.Minute)
	ctx := context.Background()
	env.book(t, "Dune")

	_, err := svc.ListBooks(ctx)
	require.NoError(t, err)

	// Written behind the service's back, so only a cache hit hides it.
	env.book(t, "Emma")
	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	env.redis.FastForward(2 * time.Minute)
	books, err = svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestCatalogService_WorksWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	env.redis.Close()
	svc := NewCatalogService(env.store, env.cache, time.Minute)
	ctx := context.Background()

	_, err := svc.AddBook(ctx, "Dune", "Herbert", "B2")
	require.NoError(t, err)
	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestCatalogService_RemoveBookDropsHistory(t *testing.T) {
	env := newTestEnv(t)
	catalog := NewCatalogService(env.store, env.cache, time.Minute)
	circulation := NewCirculationService(env.store, env.cache, config.ReturnPolicyClose)
	ctx := context.Background()

	env.member(t, "alice", model.RoleStudent, false)
	book := env.book(t, "Dune")
	_, err := circulation.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)

	require.NoError(t, catalog.RemoveBook(ctx, book.ID))

	books, err := catalog.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	history, err := env.store.Borrows.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	open, err := circulation.OpenBorrows(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestCatalogService_RemoveMissingBook(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.store, env.cache, time.Minute)

	err := svc.RemoveBook(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrBookNotFound)
}

func TestCatalogService_ImportBooks(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.store, env.cache, time.Minute)
	ctx := context.Background()

	n, err := svc.ImportBooks(ctx, []BookInput{
		{Title: "Dune", Author: "Herbert", Location: "B2"},
		{Title: "", Author: "Nobody", Location: "X"},
		{Title: "Emma", Author: "Austen", Location: "C1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		assert.True(t, b.Available)
	}

	_, err = svc.ImportBooks(ctx, []BookInput{{Title: "only title"}})
	assert.ErrorIs(t, err, ErrEmptyImport)
}

// pausingBooks holds the first List call after its database read until released.
type pausingBooks struct {
	repository.BookRepository
	calls   int32
	read    chan struct{}
	release chan struct{}
}

func (p *pausingBooks) List(ctx context.Context) ([]model.Book, error) {
	books, err := p.BookRepository.List(ctx)
	if atomic.AddInt32(&p.calls, 1) == 1 {
		close(p.read)
		<-p.release
	}
	return books, err
}

func TestCatalogService_ListRacingBorrowDoesNotCacheStaleList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.member(t, "alice", model.RoleStudent, false)
	book := env.book(t, "Dune")

	paused := &pausingBooks{
		BookRepository: env.store.Books,
		read:           make(chan struct{}),
		release:        make(chan struct{}),
	}
	catalogStore := *env.store
	catalogStore.Books = paused
	catalog := NewCatalogService(&catalogStore, env.cache, time.Minute)
	circulation := NewCirculationService(env.store, env.cache, config.ReturnPolicyClose)

	done := make(chan error, 1)
	go func() {
		_, err := catalog.ListBooks(ctx)
		done <- err
	}()

	<-paused.read
	_, err := circulation.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)
	close(paused.release)
	require.NoError(t, <-done)

	books, err := catalog.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.False(t, books[0].Available, "list read before the borrow must not be served after it")
}

func TestCatalogService_BookHistory(t *testing.T) {
	env := newTestEnv(t)
	catalog := NewCatalogService(env.store, env.cache, time.Minute)
	circulation := NewCirculationService(env.store, env.cache, config.ReturnPolicyClose)
	ctx := context.Background()

	env.member(t, "alice", model.RoleStudent, false)
	book := env.book(t, "Dune")

	_, err := circulation.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)
	require.NoError(t, circulation.Return(ctx, "alice", book.ID))
	_, err = circulation.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)

	history, err := catalog.BookHistory(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.BorrowStatusClosed, history[0].Status())
	assert.Equal(t, model.BorrowStatusOpen, history[1].Status())

	_, err = catalog.BookHistory(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrBookNotFound)
}
