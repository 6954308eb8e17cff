package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"libraryhub/internal/auth"
	"libraryhub/internal/model"
	"libraryhub/internal/service"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService  service.AuthService
	sessionTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

// RegisterRequest represents a registration form.
type RegisterRequest struct {
	Username  string `form:"username" json:"username" validate:"required,max=80"`
	Password  string `form:"password" json:"password" validate:"required,max=128"`
	Role      string `form:"role" json:"role" validate:"required,oneof=student librarian faculty"`
	Name      string `form:"name" json:"name" validate:"max=120"`
	StudentID string `form:"student_id" json:"student_id" validate:"max=40"`
}

// LoginRequest represents a login form.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// FormView describes a form the client should render.
type FormView struct {
	Form   string       `json:"form"`
	Action string       `json:"action"`
	Fields []string     `json:"fields"`
	Roles  []model.Role `json:"roles,omitempty"`
}

// HomeView is the landing page.
type HomeView struct {
	Title string            `json:"title"`
	Links map[string]string `json:"links"`
}

// Home godoc
// @Summary Landing page
// @Tags pages
// @Produce json
// @Success 200 {object} HomeView
// @Router / [get]
func (h *AuthHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, HomeView{
		Title: "Library Management System",
		Links: map[string]string{
			"register": "/register",
			"login":    "/login",
			"search":   "/search",
		},
	})
}

// RegisterForm godoc
// @Summary Registration form
// @Tags auth
// @Produce json
// @Success 200 {object} FormView
// @Router /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormView{
		Form:   "register",
		Action: "/register",
		Fields: []string{"username", "password", "role", "name", "student_id"},
		Roles:  model.Roles,
	})
}

// Register godoc
// @Summary Register a new member
// @Description New accounts wait for librarian approval before they can log in.
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce plain
// @Param request body RegisterRequest true "Registration data"
// @Success 302 "Redirect to /login"
// @Failure 400 {string} string
// @Failure 409 {string} string "Username already exists!"
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Role:      model.Role(req.Role),
		Name:      req.Name,
		StudentID: req.StudentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(http.StatusFound, auth.LoginPath)
}

// LoginForm godoc
// @Summary Login form
// @Tags auth
// @Produce json
// @Success 200 {object} FormView
// @Router /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormView{
		Form:   "login",
		Action: auth.LoginPath,
		Fields: []string{"username", "password"},
	})
}

// Login godoc
// @Summary Log in
// @Description Sets the session cookie on success.
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce plain
// @Param request body LoginRequest true "Login credentials"
// @Success 302 "Redirect to /dashboard"
// @Failure 400 {string} string
// @Failure 401 {string} string "Invalid credentials!"
// @Failure 403 {string} string "Your account has not been verified yet."
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bindForm(c, &req); !ok {
		return err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	c.SetCookie(auth.NewSessionCookie(token, h.sessionTTL, h.secureCookie))
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Success 302 "Redirect to /login"
// @Router /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			slog.WarnContext(c.Request().Context(), "revoke session failed", "error", err)
		}
	}
	c.SetCookie(auth.ExpiredSessionCookie(h.secureCookie))
	return c.Redirect(http.StatusFound, auth.LoginPath)
}
