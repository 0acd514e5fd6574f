package handler

import (
	"net/http"

	"github.com/mcoot/drawguess/internal/api/apierr"
	"github.com/mcoot/drawguess/internal/api/request"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decode reads the request body, answering 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := request.Decode(w, r, v); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("invalid request body: "+err.Error()))
		return false
	}
	return true
}
