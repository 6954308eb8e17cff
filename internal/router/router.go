package router

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"libraryhub/internal/auth"
	"libraryhub/internal/handler"
	"libraryhub/internal/logging"
	"libraryhub/internal/policy"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Dashboard   *handler.DashboardHandler
	Catalog     *handler.CatalogHandler
	Circulation *handler.CirculationHandler
	Members     *handler.MemberHandler
	Fines       *handler.FineHandler
	Health      *handler.HealthHandler
}

// Register wires routes and middleware. Every guarded route first requires a valid
// session, then a role that table allows for the route's action.
func Register(
	e *echo.Echo,
	sessions *auth.SessionService,
	revoker auth.SessionRevoker,
	table policy.Table,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(slog.Default()))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	session := auth.Authenticate(sessions, revoker)
	can := func(action policy.Action) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{session, auth.RequirePermission(table, action)}
	}

	e.GET("/healthz", h.Health.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.GET("/", h.Auth.Home)
	e.GET("/register", h.Auth.RegisterForm)
	e.POST("/register", h.Auth.Register)
	e.GET("/login", h.Auth.LoginForm)
	e.POST("/login", h.Auth.Login)
	e.GET("/logout", h.Auth.Logout)
	e.GET("/search", h.Catalog.Search)

	e.GET("/dashboard", h.Dashboard.Dashboard, session)

	// Circulation
	e.GET("/borrow", h.Circulation.BorrowView, can(policy.ActionBorrow)...)
	e.POST("/borrow", h.Circulation.Borrow, can(policy.ActionBorrow)...)
	e.POST("/borrow/:id", h.Circulation.Borrow, can(policy.ActionBorrow)...)
	e.GET("/return", h.Circulation.ReturnView, can(policy.ActionBorrow)...)
	e.POST("/return", h.Circulation.Return, can(policy.ActionBorrow)...)
	e.POST("/return/:id", h.Circulation.Return, can(policy.ActionBorrow)...)

	// Inventory
	e.GET("/inventory", h.Catalog.Inventory, can(policy.ActionManageInventory)...)
	e.POST("/inventory", h.Catalog.AddBook, can(policy.ActionManageInventory)...)
	e.POST("/inventory/import", h.Catalog.ImportBooks, can(policy.ActionManageInventory)...)
	e.GET("/inventory/:id/history", h.Catalog.BookHistory, can(policy.ActionManageInventory)...)
	e.POST("/remove_book/:id", h.Catalog.RemoveBook, can(policy.ActionRemoveBook)...)

	// Members
	e.GET("/manage_members", h.Members.ManageMembers, can(policy.ActionManageMembers)...)
	e.POST("/manage_members", h.Members.RemoveMember, can(policy.ActionManageMembers)...)
	e.GET("/approve", h.Members.PendingMembers, can(policy.ActionApprovePending)...)
	e.POST("/approve", h.Members.Decide, can(policy.ActionApprovePending)...)
	e.GET("/view_members", h.Members.ViewMembers, can(policy.ActionViewMembers)...)

	// Fines
	e.GET("/fines", h.Fines.ListFines, can(policy.ActionIssueFines)...)
	e.POST("/fines", h.Fines.IssueFine, can(policy.ActionIssueFines)...)
	e.POST("/fines/:id/pay", h.Fines.PayFine, can(policy.ActionIssueFines)...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
