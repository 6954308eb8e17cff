package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/service"
)

const inventoryPath = "/inventory"

// CatalogHandler handles the public catalog and the inventory screens.
type CatalogHandler struct {
	catalog service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// BooksView is a list of books.
type BooksView struct {
	Books []model.Book `json:"books"`
}

// AddBookRequest represents the inventory form.
type AddBookRequest struct {
	Title    string `form:"title" json:"title" validate:"required,max=255"`
	Author   string `form:"author" json:"author" validate:"required,max=255"`
	Location string `form:"location" json:"location" validate:"required,max=120"`
}

// BookHistoryView lists a book's borrow records, oldest first.
type BookHistoryView struct {
	BookID  uint                 `json:"book_id"`
	Records []model.BorrowRecord `json:"records"`
}

// ImportBooksResponse reports a bulk import.
type ImportBooksResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Search godoc
// @Summary Browse the catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} BooksView
// @Router /search [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	books, err := h.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BooksView{Books: books})
}

// Inventory godoc
// @Summary Inventory view
// @Tags inventory
// @Produce json
// @Success 200 {object} BooksView
// @Failure 403 {string} string "Access Denied"
// @Router /inventory [get]
func (h *CatalogHandler) Inventory(c echo.Context) error {
	return h.Search(c)
}

// AddBook godoc
// @Summary Add a book
// @Tags inventory
// @Accept x-www-form-urlencoded,json
// @Param request body AddBookRequest true "Book"
// @Success 302 "Redirect to /inventory"
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Router /inventory [post]
func (h *CatalogHandler) AddBook(c echo.Context) error {
	var req AddBookRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	if _, err := h.catalog.AddBook(c.Request().Context(), req.Title, req.Author, req.Location); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, inventoryPath)
}

// ImportBooks godoc
// @Summary Bulk import books
// @Description Entries missing a title, author or location are skipped.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body []service.BookInput true "Books"
// @Success 201 {object} ImportBooksResponse
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Router /inventory/import [post]
func (h *CatalogHandler) ImportBooks(c echo.Context) error {
	var books []service.BookInput
	if err := c.Bind(&books); err != nil {
		return c.String(http.StatusBadRequest, "invalid request body")
	}

	count, err := h.catalog.ImportBooks(c.Request().Context(), books)
	if errors.Is(err, service.ErrEmptyImport) {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ImportBooksResponse{
		Message: "books imported",
		Count:   count,
	})
}

// BookHistory godoc
// @Summary Borrow history of a book
// @Tags inventory
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} BookHistoryView
// @Failure 403 {string} string "Access Denied"
// @Failure 404 {string} string
// @Router /inventory/{id}/history [get]
func (h *CatalogHandler) BookHistory(c echo.Context) error {
	var req BookActionRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	records, err := h.catalog.BookHistory(c.Request().Context(), req.BookID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, BookHistoryView{BookID: req.BookID, Records: records})
}

// RemoveBook godoc
// @Summary Remove a book and its borrow history
// @Tags inventory
// @Param id path int true "Book ID"
// @Success 302 "Redirect to /inventory"
// @Failure 403 {string} string "Access Denied"
// @Router /remove_book/{id} [post]
func (h *CatalogHandler) RemoveBook(c echo.Context) error {
	var req BookActionRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	if err := h.catalog.RemoveBook(c.Request().Context(), req.BookID); err != nil && !apperr.IsSilent(err) {
		return err
	}
	return c.Redirect(http.StatusFound, inventoryPath)
}
