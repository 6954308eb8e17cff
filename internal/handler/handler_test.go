package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "libraryhub/internal/errors"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBindFormAcceptsJSONAndForm(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/login", echo.MIMEApplicationJSON, `{"username":"alice","password":"pw"}`)
	var req LoginRequest
	ok, err := bindForm(c, &req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", req.Username)

	c, _ = newContext(http.MethodPost, "/login", echo.MIMEApplicationForm, "username=bob&password=pw")
	req = LoginRequest{}
	ok, err = bindForm(c, &req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bob", req.Username)
}

func TestBindFormRejectsInvalidInput(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/login", echo.MIMEApplicationForm, "username=bob")
	var req LoginRequest
	ok, err := bindForm(c, &req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPost, "/login", echo.MIMEApplicationJSON, `{"username":`)
	ok, err = bindForm(c, &req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookActionRequestFromPathOrForm(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/borrow/7", "", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	var req BookActionRequest
	ok, err := bindForm(c, &req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(7), req.BookID)

	c, _ = newContext(http.MethodPost, "/borrow", echo.MIMEApplicationForm, "book_id=9")
	req = BookActionRequest{}
	ok, err = bindForm(c, &req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(9), req.BookID)

	c, rec := newContext(http.MethodPost, "/borrow", echo.MIMEApplicationForm, "")
	req = BookActionRequest{}
	ok, _ = bindForm(c, &req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondError(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/register", "", "")
	require.NoError(t, respondError(c, fmt.Errorf("register: %w", apperr.ErrUserAlreadyExists)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists!", rec.Body.String())

	c, _ = newContext(http.MethodPost, "/register", "", "")
	boom := errors.New("disk full")
	assert.ErrorIs(t, respondError(c, boom), boom, "storage faults go to the echo error handler")
}
