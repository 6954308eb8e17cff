package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/cache"
	"libraryhub/internal/db"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

type testEnv struct {
	store *repository.Store
	cache *cache.Client
	redis *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	redis := miniredis.RunT(t)
	c := cache.New(redis.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	return &testEnv{store: repository.NewStore(gormDB), cache: c, redis: redis}
}

func (e *testEnv) member(t *testing.T, username string, role model.Role, pending bool) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "x", Role: role, Pending: pending}
	require.NoError(t, e.store.Users.Create(context.Background(), u))
	return u
}

func (e *testEnv) book(t *testing.T, title string) *model.Book {
	t.Helper()
	b := &model.Book{Title: title, Author: "Author", Location: "A1", Available: true}
	require.NoError(t, e.store.Books.Create(context.Background(), b))
	return b
}
