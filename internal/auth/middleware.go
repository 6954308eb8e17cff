package auth

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"libraryhub/internal/model"
	"libraryhub/internal/policy"
)

const (
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"
	// AccessDenied is the fixed body of a role rejection.
	AccessDenied = "Access Denied"

	claimsContextKey = "session"
)

// ErrSessionRevoked is returned when a logged-out session is presented again.
var ErrSessionRevoked = errors.New("session revoked")

// Authenticate validates the session cookie and stores the caller's Identity in the
// request context. Requests without a valid session are redirected to LoginPath.
func Authenticate(sessions *SessionService, revoker SessionRevoker) echo.MiddlewareFunc {
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + SessionCookie,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := sessions.Parse(token)
			if err != nil {
				return nil, err
			}
			if revoker != nil && isRevoked(c.Request().Context(), revoker, claims) {
				return nil, ErrSessionRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusFound, LoginPath)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(attachIdentity(next))
	}
}

func isRevoked(ctx context.Context, revoker SessionRevoker, claims *Claims) bool {
	if revoker.IsRevoked(ctx, claims.ID) {
		return true
	}
	return claims.IssuedAt != nil && revoker.IsUserRevoked(ctx, claims.Username, claims.IssuedAt.Time)
}

func attachIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsContextKey).(*Claims)
		if !ok {
			return c.Redirect(http.StatusFound, LoginPath)
		}
		ctx := WithIdentity(c.Request().Context(), claims.Identity())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// Guard lets the request through only when the caller's role is one of roles.
// Anonymous callers are redirected to LoginPath; other roles get 403.
func Guard(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c.Request().Context())
			if !ok {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			if _, ok := allowed[id.Role]; !ok {
				return c.String(http.StatusForbidden, AccessDenied)
			}
			return next(c)
		}
	}
}

// RequirePermission guards a route with the roles table allows to perform action.
func RequirePermission(table policy.Table, action policy.Action) echo.MiddlewareFunc {
	return Guard(table.RolesFor(action)...)
}
