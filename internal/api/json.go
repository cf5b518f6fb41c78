package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errResponse is the body every failing endpoint returns.
type errResponse struct {
	Error string `json:"error"`
}

// writeJSON renders v as the response body. An encode failure is only
// logged, the status line has already gone out.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
	}
}

// writeError renders an errResponse with the given message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResponse{Error: msg})
}
