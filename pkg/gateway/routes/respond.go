package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	writeJSONStatus(w, http.StatusOK, payload)
}

func writeJSONStatus(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

// writeError maps the error kind to a status. Internal errors are logged and
// their detail is not sent to the client.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("request failed")
		message = "internal server error"
	}
	writeJSONStatus(w, status, errorResponse{Error: message, Code: apperr.Code(err)})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.InvalidArgument("request body exceeds %d bytes", tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return apperr.InvalidArgument("request body is required")
		}
		return apperr.InvalidArgument("invalid request body: %v", err)
	}
	return nil
}
