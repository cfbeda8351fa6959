package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/Abinayasri1011/noolsakaa/internal/metrics"
)

// Recover turns a handler panic into a 500 JSON error carrying the request
// id. http.ErrAbortHandler is re-raised so net/http can drop the connection.
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
				rid := GetRequestID(r)
				metrics.RecordPanic()
				logger.Error().
					Str("rid", rid).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panic")

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				// rid is printable ASCII (see validRequestID), so %q is valid JSON.
				_, _ = fmt.Fprintf(w, `{"error":"internal","message":"unexpected server error","requestId":%q}`, rid)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
