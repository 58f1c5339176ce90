package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the id of an upload through logs and responses.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLen = 64

type ridKey struct{}

// RequestID keeps a caller-supplied X-Request-ID when it is short printable
// ASCII and assigns a fresh uuid otherwise. The id is echoed back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(RequestIDHeader)
			if !validRequestID(rid) {
				rid = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, rid)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ridKey{}, rid)))
		})
	}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

func GetRequestID(r *http.Request) string {
	rid, _ := r.Context().Value(ridKey{}).(string)
	return rid
}

// RequestLogger returns base tagged with the request id and route.
func RequestLogger(r *http.Request, base zerolog.Logger) zerolog.Logger {
	return base.With().
		Str("rid", GetRequestID(r)).
		Str("route", r.Method+" "+r.URL.Path).
		Logger()
}
