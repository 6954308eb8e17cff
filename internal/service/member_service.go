package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/auth"
	"libraryhub/internal/cache"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

// ApprovalAction is a librarian's decision on a pending member.
type ApprovalAction string

const (
	ApprovalApprove ApprovalAction = "approve"
	ApprovalReject  ApprovalAction = "reject"
)

// MemberService exposes membership administration.
type MemberService interface {
	ListMembers(ctx context.Context) ([]model.User, error)
	ListPending(ctx context.Context) ([]model.User, error)
	Decide(ctx context.Context, username string, action ApprovalAction) error
	RemoveMember(ctx context.Context, username string) error
}

type memberService struct {
	store      *repository.Store
	cache      *cache.Client
	revoker    auth.SessionRevoker
	sessionTTL time.Duration
}

// NewMemberService builds a MemberService. Sessions of removed members are revoked
// through revoker for sessionTTL; a nil revoker leaves them valid until expiry.
func NewMemberService(store *repository.Store, cache *cache.Client, revoker auth.SessionRevoker, sessionTTL time.Duration) MemberService {
	return &memberService{store: store, cache: cache, revoker: revoker, sessionTTL: sessionTTL}
}

func (s *memberService) ListMembers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *memberService) ListPending(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	return users, nil
}

// Decide approves or rejects a pending member. Approval clears pending; rejection
// deletes the account. Only pending members match.
func (s *memberService) Decide(ctx context.Context, username string, action ApprovalAction) error {
	if action != ApprovalApprove && action != ApprovalReject {
		return fmt.Errorf("unknown approval action %q", action)
	}

	return s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		user, err := tx.Users.FindPendingByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrUserNotFound
			}
			return fmt.Errorf("find pending user: %w", err)
		}

		if action == ApprovalApprove {
			if err := tx.Users.Approve(ctx, user.ID); err != nil {
				return fmt.Errorf("approve user: %w", err)
			}
			slog.InfoContext(ctx, "member approved", "username", username)
			return nil
		}

		if err := deleteMember(ctx, tx, user.ID); err != nil {
			return err
		}
		slog.InfoContext(ctx, "member rejected", "username", username)
		return nil
	})
}

// RemoveMember deletes a member with their records and fines. Books they still
// held go back on the shelf.
func (s *memberService) RemoveMember(ctx context.Context, username string) error {
	var freed int
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		user, err := findUser(ctx, tx.Users, username)
		if err != nil {
			return err
		}

		held, err := tx.Borrows.ListOpenByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list open records: %w", err)
		}
		bookIDs := make([]uint, 0, len(held))
		for _, r := range held {
			bookIDs = append(bookIDs, r.BookID)
		}
		if err := tx.Books.SetAvailableMany(ctx, bookIDs, true); err != nil {
			return fmt.Errorf("release held books: %w", err)
		}
		freed = len(bookIDs)

		return deleteMember(ctx, tx, user.ID)
	})
	if err != nil {
		return err
	}
	if freed > 0 {
		invalidateCatalog(ctx, s.cache)
	}
	s.revokeSessions(ctx, username)

	slog.InfoContext(ctx, "member removed", "username", username, "books_released", freed)
	return nil
}

func deleteMember(ctx context.Context, tx *repository.Store, userID uint) error {
	if err := tx.Borrows.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete borrow records: %w", err)
	}
	if err := tx.Fines.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete fines: %w", err)
	}
	if err := tx.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// revokeSessions ends any session still held by a deleted member.
func (s *memberService) revokeSessions(ctx context.Context, username string) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUser(ctx, username, s.sessionTTL); err != nil {
		slog.WarnContext(ctx, "revoke member sessions", "username", username, "error", err)
	}
}
