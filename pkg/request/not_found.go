package request

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/tickets/pkg/logging"
)

// WriteJSON writes body as JSON with the given status.
func WriteJSON(l *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
	}
}

// NotFoundHandler returns a handler that responds 404 for unknown monitoring routes.
func NotFoundHandler(l *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(l, w, http.StatusNotFound, NewMessage("Not found: %s", r.URL.Path))
	}
}

// MethodNotAllowedHandler returns a handler that responds 405.
func MethodNotAllowedHandler(l *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(l, w, http.StatusMethodNotAllowed, NewMessage("Method %s not allowed", r.Method))
	}
}
