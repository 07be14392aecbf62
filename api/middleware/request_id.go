package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns each request a correlation id. An inbound X-Request-Id is
// honored only when it parses as a UUID, otherwise a fresh one is minted. The
// id is echoed back on the response and attached to the request logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
