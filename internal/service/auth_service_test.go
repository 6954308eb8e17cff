package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"libraryhub/internal/auth"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindPendingByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListPending(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Approve(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionRevoker is a mock implementation of SessionRevoker.
type MockSessionRevoker struct {
	mock.Mock
}

func (m *MockSessionRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, ttl)
	return args.Error(0)
}

func (m *MockSessionRevoker) IsRevoked(ctx context.Context, sessionID string) bool {
	args := m.Called(ctx, sessionID)
	return args.Bool(0)
}

func (m *MockSessionRevoker) RevokeUser(ctx context.Context, username string, ttl time.Duration) error {
	args := m.Called(ctx, username, ttl)
	return args.Error(0)
}

func (m *MockSessionRevoker) IsUserRevoked(ctx context.Context, username string, issuedAt time.Time) bool {
	args := m.Called(ctx, username, issuedAt)
	return args.Bool(0)
}

func fastHash(pw string) (string, error) {
	return auth.HashPasswordIterations(pw, 1000)
}

func newTestAuthService(repo *MockUserRepository, revoker *MockSessionRevoker, autoApproveStaff bool) *authService {
	svc := NewAuthService(repo, auth.NewSessionService("test-secret", time.Hour), revoker, autoApproveStaff).(*authService)
	svc.hash = fastHash
	return svc
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name            string
		input           RegisterInput
		autoApprove     bool
		setupMock       func(*MockUserRepository)
		expectedError   error
		expectedPending bool
		expectedStudent string
	}{
		{
			name:  "student registers pending",
			input: RegisterInput{Username: "alice", Password: "pw", Role: model.RoleStudent, Name: " Alice ", StudentID: "S1"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedPending: true,
			expectedStudent: "S1",
		},
		{
			name:  "faculty drops student id",
			input: RegisterInput{Username: "prof", Password: "pw", Role: model.RoleFaculty, StudentID: "S9"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "prof").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedPending: true,
		},
		{
			name:        "staff auto approved",
			input:       RegisterInput{Username: "lib", Password: "pw", Role: model.RoleLibrarian},
			autoApprove: true,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "lib").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedPending: false,
		},
		{
			name:        "students never auto approved",
			input:       RegisterInput{Username: "stu", Password: "pw", Role: model.RoleStudent},
			autoApprove: true,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "stu").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedPending: true,
		},
		{
			name:  "username already exists",
			input: RegisterInput{Username: "alice", Password: "pw", Role: model.RoleStudent},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{Username: "alice"}, nil)
			},
			expectedError: apperr.ErrUserAlreadyExists,
		},
		{
			name:  "unique index race",
			input: RegisterInput{Username: "alice", Password: "pw", Role: model.RoleStudent},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperr.ErrUserAlreadyExists,
		},
		{
			name:          "unknown role",
			input:         RegisterInput{Username: "x", Password: "pw", Role: model.Role("admin")},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperr.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockSessionRevoker), tt.autoApprove)
			user, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.input.Username, user.Username)
				assert.Equal(t, tt.expectedPending, user.Pending)
				assert.Equal(t, tt.expectedStudent, user.StudentID)
				assert.NotEqual(t, tt.input.Password, user.Password)
				assert.True(t, auth.VerifyPassword(tt.input.Password, user.Password))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := fastHash("password123")
	require.NoError(t, err)

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID: 1, Username: "alice", Password: hashed, Role: model.RoleStudent,
				}, nil)
			},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperr.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID: 1, Username: "alice", Password: hashed, Role: model.RoleStudent,
				}, nil)
			},
			expectedError: apperr.ErrInvalidCredentials,
		},
		{
			name:     "pending with wrong password is still invalid credentials",
			username: "alice",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID: 1, Username: "alice", Password: hashed, Role: model.RoleStudent, Pending: true,
				}, nil)
			},
			expectedError: apperr.ErrInvalidCredentials,
		},
		{
			name:     "pending account",
			username: "alice",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID: 1, Username: "alice", Password: hashed, Role: model.RoleStudent, Pending: true,
				}, nil)
			},
			expectedError: apperr.ErrAccountPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newTestAuthService(mockRepo, new(MockSessionRevoker), false)
			token, user, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				require.NotNil(t, user)

				claims, err := service.sessions.Parse(token)
				require.NoError(t, err)
				assert.Equal(t, "alice", claims.Username)
				assert.Equal(t, model.RoleStudent, claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRevoker := new(MockSessionRevoker)
	service := newTestAuthService(mockRepo, mockRevoker, false)

	token, claims, err := service.sessions.Issue("alice", model.RoleStudent)
	require.NoError(t, err)

	mockRevoker.On("Revoke", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Return(nil)

	require.NoError(t, service.Logout(context.Background(), token))
	mockRevoker.AssertExpectations(t)
}

func TestAuthService_LogoutIgnoresBadTokens(t *testing.T) {
	mockRevoker := new(MockSessionRevoker)
	service := newTestAuthService(new(MockUserRepository), mockRevoker, false)

	assert.NoError(t, service.Logout(context.Background(), ""))
	assert.NoError(t, service.Logout(context.Background(), "not-a-jwt"))
	mockRevoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}
