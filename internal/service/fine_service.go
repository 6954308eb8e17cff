package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

// FineService handles charges issued to members.
type FineService interface {
	IssueFine(ctx context.Context, issuer, username string, amount decimal.Decimal, reason string) (*model.Fine, error)
	ListFines(ctx context.Context) ([]model.Fine, error)
	UnpaidFor(ctx context.Context, username string) ([]model.Fine, error)
	PayFine(ctx context.Context, id uint) error
}

type fineService struct {
	store *repository.Store
}

// NewFineService creates a new fine service.
func NewFineService(store *repository.Store) FineService {
	return &fineService{store: store}
}

// IssueFine charges username amount, rounded to cents.
func (s *fineService) IssueFine(ctx context.Context, issuer, username string, amount decimal.Decimal, reason string) (*model.Fine, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}

	user, err := findUser(ctx, s.store.Users, username)
	if err != nil {
		return nil, err
	}

	fine := &model.Fine{
		UserID:   user.ID,
		Amount:   amount,
		Reason:   strings.TrimSpace(reason),
		IssuedBy: issuer,
	}
	if err := s.store.Fines.Create(ctx, fine); err != nil {
		return nil, fmt.Errorf("create fine: %w", err)
	}

	slog.InfoContext(ctx, "fine issued", "username", username, "amount", amount.StringFixed(2), "issued_by", issuer)
	return fine, nil
}

func (s *fineService) ListFines(ctx context.Context) ([]model.Fine, error) {
	fines, err := s.store.Fines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fines: %w", err)
	}
	return fines, nil
}

func (s *fineService) UnpaidFor(ctx context.Context, username string) ([]model.Fine, error) {
	user, err := findUser(ctx, s.store.Users, username)
	if err != nil {
		return nil, err
	}
	fines, err := s.store.Fines.ListUnpaidByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list unpaid fines: %w", err)
	}
	return fines, nil
}

// PayFine settles an unpaid fine.
func (s *fineService) PayFine(ctx context.Context, id uint) error {
	paid, err := s.store.Fines.MarkPaid(ctx, id)
	if err != nil {
		return fmt.Errorf("mark fine paid: %w", err)
	}
	if !paid {
		return apperr.ErrFineNotFound
	}
	slog.InfoContext(ctx, "fine paid", "fine_id", id)
	return nil
}
