package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"vidtube/internal/httputil"
	"vidtube/internal/model"
)

// writeError renders a service error. Anything outside the domain categories
// is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code, message, ok := httputil.Classify(err)
	if ok {
		httputil.WriteError(w, status, code, message)
		return
	}

	log.WithFields(log.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"op":         op,
	}).Errorf("[ERROR] %s handler: %v", op, err)
	httputil.WriteInternalError(w, "Something went wrong")
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.Validationf("Invalid request body")
	}
	return nil
}

// pageFromQuery reads page and limit. Missing values take the defaults.
func pageFromQuery(r *http.Request, maxLimit int) (model.PageRequest, error) {
	page, err := intParam(r, "page")
	if err != nil {
		return model.PageRequest{}, model.ErrInvalidPage
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		return model.PageRequest{}, model.ErrInvalidPageSize
	}
	if page < 0 {
		return model.PageRequest{}, model.ErrInvalidPage
	}
	if limit < 0 {
		return model.PageRequest{}, model.ErrInvalidPageSize
	}
	return model.NewPageRequest(page, limit, maxLimit)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		// zero would silently select the default
		return -1, nil
	}
	return v, nil
}

type messageResponse struct {
	Message string `json:"message"`
}
