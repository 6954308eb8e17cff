package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/service"
)

const finesPath = "/fines"

// FineHandler handles fines.
type FineHandler struct {
	fines service.FineService
}

// NewFineHandler creates a new fine handler.
func NewFineHandler(fines service.FineService) *FineHandler {
	return &FineHandler{fines: fines}
}

// FinesView lists fines.
type FinesView struct {
	Fines []model.Fine `json:"fines"`
}

// IssueFineRequest represents the fine form. Amount is a decimal string such as "2.50".
type IssueFineRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Amount   string `form:"amount" json:"amount" validate:"required,numeric"`
	Reason   string `form:"reason" json:"reason" validate:"max=255"`
}

// FineActionRequest names a fine by path parameter.
type FineActionRequest struct {
	FineID uint `param:"id" validate:"required"`
}

// ListFines godoc
// @Summary All fines
// @Tags fines
// @Produce json
// @Success 200 {object} FinesView
// @Failure 403 {string} string "Access Denied"
// @Router /fines [get]
func (h *FineHandler) ListFines(c echo.Context) error {
	fines, err := h.fines.ListFines(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FinesView{Fines: fines})
}

// IssueFine godoc
// @Summary Fine a member
// @Tags fines
// @Accept x-www-form-urlencoded,json
// @Produce plain
// @Param request body IssueFineRequest true "Fine"
// @Success 302 "Redirect to /fines"
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Failure 404 {string} string
// @Router /fines [post]
func (h *FineHandler) IssueFine(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req IssueFineRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid amount")
	}

	if _, err := h.fines.IssueFine(c.Request().Context(), id.Username, req.Username, amount, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.Redirect(http.StatusFound, finesPath)
}

// PayFine godoc
// @Summary Mark a fine paid
// @Tags fines
// @Param id path int true "Fine ID"
// @Success 302 "Redirect to /fines"
// @Failure 403 {string} string "Access Denied"
// @Router /fines/{id}/pay [post]
func (h *FineHandler) PayFine(c echo.Context) error {
	var req FineActionRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	if err := h.fines.PayFine(c.Request().Context(), req.FineID); err != nil && !apperr.IsSilent(err) {
		return err
	}
	return c.Redirect(http.StatusFound, finesPath)
}
