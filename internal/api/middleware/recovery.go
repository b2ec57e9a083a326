package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/echofinder/api/internal/api/dto"
	"github.com/echofinder/api/internal/apperr"
)

// Recovery turns handler panics into an INTERNAL error response instead of a
// dropped connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"correlation_id", GetCorrelationID(r.Context()),
						"stack", string(debug.Stack()),
					)
					writeEnvelope(w, http.StatusInternalServerError,
						dto.NewError(apperr.CodeInternal, "An unexpected error occurred"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
