package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/drawguess/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Codes for failures raised by the HTTP layer itself. Domain failures use
// the model's codes unchanged.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var me *model.Error
	if !errors.As(err, &me) {
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}

	return &httpError{statusFor(me), APIError{string(me.Code), me.Message}}
}

func statusFor(e *model.Error) int {
	switch {
	case errors.Is(e, model.ErrGameNotFound), errors.Is(e, model.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(e, model.ErrInvalidPlayerToken):
		return http.StatusUnauthorized
	case errors.Is(e, model.ErrNotDrawer), errors.Is(e, model.ErrDrawerCannotGuess), errors.Is(e, model.ErrNotCreator):
		return http.StatusForbidden
	}

	switch e.Kind {
	case model.KindValidation, model.KindMissing:
		return http.StatusBadRequest
	case model.KindTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Player token required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
