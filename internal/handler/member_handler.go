package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperr "libraryhub/internal/errors"
	"libraryhub/internal/model"
	"libraryhub/internal/service"
)

const (
	manageMembersPath = "/manage_members"
	approvePath       = "/approve"
)

// MemberHandler handles membership administration.
type MemberHandler struct {
	members service.MemberService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(members service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// MembersView is a list of members.
type MembersView struct {
	Users []model.User `json:"users"`
}

// RemoveMemberRequest names the member to remove.
type RemoveMemberRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
}

// ApprovalRequest is a librarian's decision on a pending registration.
type ApprovalRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Action   string `form:"action" json:"action" validate:"required,oneof=approve reject"`
}

// ManageMembers godoc
// @Summary Member management view
// @Tags members
// @Produce json
// @Success 200 {object} MembersView
// @Failure 403 {string} string "Access Denied"
// @Router /manage_members [get]
func (h *MemberHandler) ManageMembers(c echo.Context) error {
	return h.listMembers(c)
}

// RemoveMember godoc
// @Summary Remove a member
// @Description Deletes the member's loans and fines; books they held become available.
// @Tags members
// @Accept x-www-form-urlencoded,json
// @Param request body RemoveMemberRequest true "Member"
// @Success 302 "Redirect to /manage_members"
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Router /manage_members [post]
func (h *MemberHandler) RemoveMember(c echo.Context) error {
	var req RemoveMemberRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	if err := h.members.RemoveMember(c.Request().Context(), req.Username); err != nil && !apperr.IsSilent(err) {
		return err
	}
	return c.Redirect(http.StatusFound, manageMembersPath)
}

// PendingMembers godoc
// @Summary Pending registrations
// @Tags members
// @Produce json
// @Success 200 {object} MembersView
// @Failure 403 {string} string "Access Denied"
// @Router /approve [get]
func (h *MemberHandler) PendingMembers(c echo.Context) error {
	users, err := h.members.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MembersView{Users: users})
}

// Decide godoc
// @Summary Approve or reject a pending registration
// @Tags members
// @Accept x-www-form-urlencoded,json
// @Param request body ApprovalRequest true "Decision"
// @Success 302 "Redirect to /approve"
// @Failure 400 {string} string
// @Failure 403 {string} string "Access Denied"
// @Router /approve [post]
func (h *MemberHandler) Decide(c echo.Context) error {
	var req ApprovalRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	err := h.members.Decide(c.Request().Context(), req.Username, service.ApprovalAction(req.Action))
	if err != nil && !apperr.IsSilent(err) {
		return err
	}
	return c.Redirect(http.StatusFound, approvePath)
}

// ViewMembers godoc
// @Summary Read-only member list
// @Tags members
// @Produce json
// @Success 200 {object} MembersView
// @Failure 403 {string} string "Access Denied"
// @Router /view_members [get]
func (h *MemberHandler) ViewMembers(c echo.Context) error {
	return h.listMembers(c)
}

func (h *MemberHandler) listMembers(c echo.Context) error {
	users, err := h.members.ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MembersView{Users: users})
}
