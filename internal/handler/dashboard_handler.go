package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"libraryhub/internal/auth"
	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/policy"
	"libraryhub/internal/service"
)

// DashboardHandler renders the signed-in member's home view.
type DashboardHandler struct {
	catalog      service.CatalogService
	circulation  service.CirculationService
	fines        service.FineService
	table        policy.Table
	secureCookie bool
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	catalog service.CatalogService,
	circulation service.CirculationService,
	fines service.FineService,
	table policy.Table,
	secureCookie bool,
) *DashboardHandler {
	return &DashboardHandler{
		catalog:      catalog,
		circulation:  circulation,
		fines:        fines,
		table:        table,
		secureCookie: secureCookie,
	}
}

// DashboardView is what a member sees after logging in.
type DashboardView struct {
	Username     string                 `json:"username"`
	Role         model.Role             `json:"role"`
	Capabilities map[policy.Action]bool `json:"capabilities"`
	Books        []model.Book           `json:"books"`
	Borrowed     []model.BorrowRecord   `json:"borrowed"`
	Fines        []model.Fine           `json:"fines"`
}

// Dashboard godoc
// @Summary Member dashboard
// @Description Capability flags, the catalog, the caller's open loans and unpaid fines.
// @Tags pages
// @Produce json
// @Success 200 {object} DashboardView
// @Success 302 "Redirect to /login without a session"
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	ctx := c.Request().Context()

	borrowed, err := h.circulation.OpenBorrows(ctx, id.Username)
	if errors.Is(err, apperr.ErrUserNotFound) {
		// Account removed while the session was still live.
		c.SetCookie(auth.ExpiredSessionCookie(h.secureCookie))
		return c.Redirect(http.StatusFound, auth.LoginPath)
	}
	if err != nil {
		return err
	}

	books, err := h.catalog.ListBooks(ctx)
	if err != nil {
		return err
	}
	fines, err := h.fines.UnpaidFor(ctx, id.Username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DashboardView{
		Username:     id.Username,
		Role:         id.Role,
		Capabilities: h.table.Capabilities(id.Role),
		Books:        books,
		Borrowed:     borrowed,
		Fines:        fines,
	})
}
