package middleware

import (
	"net/http"

	"github.com/google/uuid"
	wrap "github.com/grmskyi/user-auth-system/pkg/logger/wrapper"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and echoes it back in
// the response headers. An incoming X-Request-ID is trusted if present.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := wrap.WithRequestID(r.Context(), id)
		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
