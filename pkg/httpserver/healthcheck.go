package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zyra-ai/zyra/pkg/logger"
)

// HealthHandler reports readiness as JSON. With no checks it always
// responds 200 {"status":"ok"}; with checks it runs each against the
// request context and responds 503 listing the failing dependencies.
func HealthHandler(log *slog.Logger, checks map[string]func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		failed := make([]string, 0, len(checks))
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "health check failed",
					slog.String("dependency", name), logger.Error(err))
				failed = append(failed, name)
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "unavailable",
				"failed": failed,
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}
}
