package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryhub/internal/model"
)

func TestSessionIssueAndParse(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour)

	token, issued, err := svc.Issue("alice", model.RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleStudent, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, Identity{Username: "alice", Role: model.RoleStudent}, claims.Identity())
}

func TestSessionIDsAreUnique(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour)

	_, a, err := svc.Issue("alice", model.RoleStudent)
	require.NoError(t, err)
	_, b, err := svc.Issue("alice", model.RoleStudent)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionParseRejects(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour)
	good, _, err := svc.Issue("alice", model.RoleLibrarian)
	require.NoError(t, err)

	other := NewSessionService("other-secret", time.Hour)
	forged, _, err := other.Issue("mallory", model.RoleLibrarian)
	require.NoError(t, err)

	expiredSvc := NewSessionService("test-secret", time.Hour)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredSvc.Issue("alice", model.RoleStudent)
	require.NoError(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username:         "alice",
		Role:             model.Role("admin"),
		RegisteredClaims: jwt.RegisteredClaims{ID: "x"},
	})
	badRoleToken, err := badRole.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":  "not-a-token",
		"tampered": good + "x",
		"forged":   forged,
		"expired":  expired,
		"bad role": badRoleToken,
		"empty":    "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSessionCookies(t *testing.T) {
	c := NewSessionCookie("tok", 2*time.Hour, true)
	assert.Equal(t, SessionCookie, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, 7200, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	expired := ExpiredSessionCookie(false)
	assert.Equal(t, SessionCookie, expired.Name)
	assert.Empty(t, expired.Value)
	assert.Less(t, expired.MaxAge, 0)
}
