package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sealedapi/core/logger"
)

// Readiness verifies the service dependencies. It replies "READY" when every check
// passes and 503 Service Unavailable on the first failure.
func Readiness(log *slog.Logger, checks ...func(context.Context) error) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				writeText(w, http.StatusServiceUnavailable, "NOT READY")
				return
			}
		}
		writeText(w, http.StatusOK, "READY")
	})
}
