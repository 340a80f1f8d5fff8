package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CampiteliRafael/cartEcommerce/internal/service"
	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.NewDefault("http").WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// errorResponder turns service errors into responses. Internal causes are
// logged and only echoed back outside production.
type errorResponder struct {
	log           *logger.Logger
	exposeDetails bool
}

func (e errorResponder) respond(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Message: "internal server error", Err: err}
	}

	status, code := statusForKind(se.Kind)
	resp := ErrorResponse{Error: se.Message, Code: code}

	if se.Kind == service.KindInternal {
		e.log.WithContext(r.Context()).WithError(err).Error("request failed")
		resp.Error = "internal server error"
		if e.exposeDetails {
			resp.Details = err.Error()
		}
	}

	respondJSON(w, status, resp)
}

func statusForKind(k service.Kind) (int, string) {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest, "validation_error"
	case service.KindNotFound:
		return http.StatusNotFound, "not_found"
	case service.KindUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case service.KindConflict:
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
