package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/service"
)

const dashboardPath = "/dashboard"

// CirculationHandler handles borrowing and returning.
type CirculationHandler struct {
	catalog     service.CatalogService
	circulation service.CirculationService
}

// NewCirculationHandler creates a new circulation handler.
func NewCirculationHandler(catalog service.CatalogService, circulation service.CirculationService) *CirculationHandler {
	return &CirculationHandler{catalog: catalog, circulation: circulation}
}

// BookActionRequest names a book by path parameter or by form field.
type BookActionRequest struct {
	BookID uint `param:"id" form:"book_id" json:"book_id" validate:"required"`
}

// ReturnView lists the catalog and the books the caller can return.
type ReturnView struct {
	Books    []model.Book         `json:"books"`
	Borrowed []model.BorrowRecord `json:"borrowed"`
}

// BorrowView godoc
// @Summary Borrow view
// @Tags circulation
// @Produce json
// @Success 200 {object} BooksView
// @Failure 403 {string} string "Access Denied"
// @Router /borrow [get]
func (h *CirculationHandler) BorrowView(c echo.Context) error {
	books, err := h.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BooksView{Books: books})
}

// Borrow godoc
// @Summary Borrow a book
// @Description Re-renders the borrow view when the book is missing or already out.
// @Tags circulation
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int false "Book ID"
// @Param request body BookActionRequest false "Book"
// @Success 302 "Redirect to /dashboard"
// @Success 200 {object} BooksView
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Router /borrow [post]
// @Router /borrow/{id} [post]
func (h *CirculationHandler) Borrow(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req BookActionRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	if _, err := h.circulation.Borrow(c.Request().Context(), id.Username, req.BookID); err != nil {
		if apperr.IsSilent(err) {
			return h.BorrowView(c)
		}
		return err
	}
	return c.Redirect(http.StatusFound, dashboardPath)
}

// ReturnView godoc
// @Summary Return view
// @Tags circulation
// @Produce json
// @Success 200 {object} ReturnView
// @Failure 403 {string} string "Access Denied"
// @Router /return [get]
func (h *CirculationHandler) ReturnView(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	books, err := h.catalog.ListBooks(ctx)
	if err != nil {
		return err
	}
	borrowed, err := h.circulation.OpenBorrows(ctx, id.Username)
	if err != nil && !apperr.IsSilent(err) {
		return err
	}
	return c.JSON(http.StatusOK, ReturnView{Books: books, Borrowed: borrowed})
}

// Return godoc
// @Summary Return a book
// @Description Only the member holding the book can return it. Anything else re-renders the return view.
// @Tags circulation
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param id path int false "Book ID"
// @Param request body BookActionRequest false "Book"
// @Success 302 "Redirect to /dashboard"
// @Success 200 {object} ReturnView
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Router /return [post]
// @Router /return/{id} [post]
func (h *CirculationHandler) Return(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req BookActionRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	if err := h.circulation.Return(c.Request().Context(), id.Username, req.BookID); err != nil {
		if apperr.IsSilent(err) {
			return h.ReturnView(c)
		}
		return err
	}
	return c.Redirect(http.StatusFound, dashboardPath)
}
