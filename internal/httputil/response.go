package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"vidtube/internal/model"
)

// Error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// returned alongside 401 by the auth middleware
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// ErrorResponse is the body of every failed request:
// {"error": {"code": "NOT_FOUND", "message": "playlist not found"}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// category pairs a domain error category with its HTTP rendering.
type category struct {
	kind   error
	status int
	code   string
}

var categories = []category{
	{model.ErrValidation, http.StatusBadRequest, ErrCodeBadRequest},
	{model.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
	{model.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{model.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{model.ErrConflict, http.StatusConflict, ErrCodeConflict},
}

// Classify maps a domain error to status, code and client message.
// ok is false for errors outside the domain categories.
func Classify(err error) (status int, code, message string, ok bool) {
	for _, c := range categories {
		if !errors.Is(err, c.kind) {
			continue
		}
		message = err.Error()
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			message = domainErr.Message
		}
		return c.status, c.code, message, true
	}
	return http.StatusInternalServerError, ErrCodeInternal, "", false
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers already sent
		log.Errorf("[httputil] Encode response FAILED: status=%d err=%v", status, err)
	}
}

func WriteError(w http.ResponseWriter, status int, code string, message string) {
	WriteJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteUnauthorized writes a 401 with the generic code.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// WriteUnauthorizedWithCode writes a 401 with a token specific code.
func WriteUnauthorizedWithCode(w http.ResponseWriter, code string, message string) {
	WriteError(w, http.StatusUnauthorized, code, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
