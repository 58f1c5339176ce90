package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// panicBody is the JSON answer sent when a handler panics. RequestID lets an
// operator find the matching "handler panic" log line.
type panicBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Recover turns a panicking upload or data request into a 500 JSON answer.
// It runs outside RequestID, so the id is read back from the response header.
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rid := w.Header().Get(RequestIDHeader)
				logger.Error().
					Str("rid", rid).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panic")

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(panicBody{Error: "reconciliation service failed", RequestID: rid})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
