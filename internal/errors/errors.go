package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserAlreadyExists is returned when registering a taken username.
	ErrUserAlreadyExists = errors.New("username already exists")
	// ErrInvalidCredentials is returned when username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountPending is returned when a correct login belongs to an unapproved account.
	ErrAccountPending = errors.New("account not yet verified")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrBookNotFound is returned when a book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable is returned when borrowing a book someone else holds.
	ErrBookUnavailable = errors.New("book is not available")
	// ErrNotBorrowed is returned when returning a book the caller does not hold.
	ErrNotBorrowed = errors.New("book is not borrowed by this user")
	// ErrFineNotFound is returned when a fine does not exist.
	ErrFineNotFound = errors.New("fine not found")
	// ErrInvalidAmount is returned when a fine amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsSilent reports whether err is a missing or invalid target that action
// routes swallow by re-rendering their view.
func IsSilent(err error) bool {
	return errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrBookUnavailable) ||
		errors.Is(err, ErrNotBorrowed) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrFineNotFound)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, "Username already exists!", "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid credentials!", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountPending):
		return NewHTTPError(http.StatusForbidden, "Your account has not been verified yet.", "ACCOUNT_PENDING")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrBookNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOK_NOT_FOUND")
	case errors.Is(err, ErrFineNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FINE_NOT_FOUND")
	case errors.Is(err, ErrBookUnavailable):
		return NewHTTPError(http.StatusConflict, err.Error(), "BOOK_UNAVAILABLE")
	case errors.Is(err, ErrNotBorrowed):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOT_BORROWED")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
