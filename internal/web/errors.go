package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler gets an error from the core service
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to get its support code
//  4. Technical error + code is logged with the request id for correlation
//  5. The client gets {"erro": ..., "codigo": ...} with a status picked by kind

import (
	"net/http"

	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/logging"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"erro"`
	Code  string `json:"codigo,omitempty"`
}

// statusFor picks the HTTP status for a classified error. Only a missing
// query parameter is the client's fault; everything else is reported as a
// server failure.
func statusFor(err error) int {
	if core.KindOf(err) == core.KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes it to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"status", status,
		"code", msg.Code,
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	if core.IsTransient(err) {
		w.Header().Set("Retry-After", "5")
	}

	writeJSON(w, r, status, ErrorResponse{
		Error: err.Error(),
		Code:  msg.Code,
	})
}
