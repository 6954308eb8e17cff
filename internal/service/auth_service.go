package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"libraryhub/internal/auth"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/repository"
)

// RegisterInput carries a registration form.
type RegisterInput struct {
	Username  string
	Password  string
	Role      model.Role
	Name      string
	StudentID string
}

// AuthService handles registration and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	users            repository.UserRepository
	sessions         *auth.SessionService
	revoker          auth.SessionRevoker
	autoApproveStaff bool
	hash             func(string) (string, error)
}

// NewAuthService creates a new authentication service. When autoApproveStaff is set,
// librarian and faculty registrations skip the approval queue.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionService, revoker auth.SessionRevoker, autoApproveStaff bool) AuthService {
	return &authService{
		users:            users,
		sessions:         sessions,
		revoker:          revoker,
		autoApproveStaff: autoApproveStaff,
		hash:             auth.HashPassword,
	}
}

// Register creates a new member with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, apperr.ErrInvalidRole
	}

	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err == nil && existing != nil {
		return nil, apperr.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username: in.Username,
		Password: hashed,
		Role:     in.Role,
		Name:     strings.TrimSpace(in.Name),
		Pending:  !(s.autoApproveStaff && in.Role != model.RoleStudent),
	}
	if in.Role == model.RoleStudent {
		user.StudentID = strings.TrimSpace(in.StudentID)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "member registered", "username", user.Username, "role", user.Role, "pending", user.Pending)
	return user, nil
}

// Login checks credentials and approval, then issues a session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.Password) {
		return "", nil, apperr.ErrInvalidCredentials
	}

	if user.Pending {
		return "", nil, apperr.ErrAccountPending
	}

	token, _, err := s.sessions.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue session: %w", err)
	}
	return token, user, nil
}

// Logout revokes the session behind token. Unknown or expired tokens have nothing to revoke.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
