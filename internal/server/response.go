package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lepinkainen/bibliotech/internal/library"
)

const statusError = "error"

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// success writes the {"status":"success"} reply the library clients expect.
func success(w http.ResponseWriter, message string, logger *slog.Logger) {
	writeJSON(w, http.StatusOK, library.Response{Status: library.StatusSuccess, Message: message}, logger)
}

// failure writes a {"status":"error"} reply whose message is shown to the user.
func failure(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	writeJSON(w, code, library.Response{Status: statusError, Message: message}, logger)
}
