package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"libraryhub/internal/config"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
)

func TestMemberService_Decide(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMemberService(env.store, env.cache, nil, time.Hour)
	ctx := context.Background()

	env.member(t, "alice", model.RoleStudent, true)
	env.member(t, "mallory", model.RoleFaculty, true)
	env.member(t, "bob", model.RoleStudent, false)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, svc.Decide(ctx, "alice", ApprovalApprove))
	require.NoError(t, svc.Decide(ctx, "mallory", ApprovalReject))

	alice, err := env.store.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, alice.Pending)

	_, err = env.store.Users.FindByUsername(ctx, "mallory")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	pending, err = svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestMemberService_DecideOnlyTouchesPending(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMemberService(env.store, env.cache, nil, time.Hour)
	ctx := context.Background()
	env.member(t, "bob", model.RoleStudent, false)

	assert.ErrorIs(t, svc.Decide(ctx, "bob", ApprovalReject), apperr.ErrUserNotFound)
	assert.ErrorIs(t, svc.Decide(ctx, "ghost", ApprovalApprove), apperr.ErrUserNotFound)
	assert.Error(t, svc.Decide(ctx, "bob", ApprovalAction("ban")))

	_, err := env.store.Users.FindByUsername(ctx, "bob")
	assert.NoError(t, err)
}

func TestMemberService_RemoveMemberReleasesBooks(t *testing.T) {
	env := newTestEnv(t)
	members := NewMemberService(env.store, env.cache, nil, time.Hour)
	circulation := NewCirculationService(env.store, env.cache, config.ReturnPolicyClose)
	fines := NewFineService(env.store)
	ctx := context.Background()

	env.member(t, "alice", model.RoleStudent, false)
	env.member(t, "bob", model.RoleStudent, false)
	dune := env.book(t, "Dune")
	emma := env.book(t, "Emma")

	_, err := circulation.Borrow(ctx, "alice", dune.ID)
	require.NoError(t, err)
	_, err = circulation.Borrow(ctx, "bob", emma.ID)
	require.NoError(t, err)
	_, err = fines.IssueFine(ctx, "lib", "alice", decimal.NewFromInt(3), "late")
	require.NoError(t, err)

	require.NoError(t, members.RemoveMember(ctx, "alice"))

	got, err := env.store.Books.FindByID(ctx, dune.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)

	got, err = env.store.Books.FindByID(ctx, emma.ID)
	require.NoError(t, err)
	assert.False(t, got.Available, "other members keep their books")

	all, err := fines.ListFines(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, members.RemoveMember(ctx, "alice"), apperr.ErrUserNotFound)
}

func TestMemberService_RemoveMemberRevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	revoker := new(MockSessionRevoker)
	members := NewMemberService(env.store, env.cache, revoker, time.Hour)
	ctx := context.Background()

	env.member(t, "lib2", model.RoleLibrarian, false)
	revoker.On("RevokeUser", mock.Anything, "lib2", time.Hour).Return(nil).Once()

	require.NoError(t, members.RemoveMember(ctx, "lib2"))
	assert.ErrorIs(t, members.RemoveMember(ctx, "lib2"), apperr.ErrUserNotFound)

	revoker.AssertExpectations(t)
}
