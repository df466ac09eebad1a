package middleware

import (
	"net/http"
	"strings"

	"github.com/retailcore/backoffice/pkg/logger"
)

const actorIDHeader = "X-Actor-Id"

// Actor reads the acting staff member from the request header and makes
// it available to handlers. The header is optional; mutations recorded
// without it carry no created_by attribution.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := strings.TrimSpace(r.Header.Get(actorIDHeader))
			if actorID == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithActorID(r.Context(), actorID)
			if logg != nil {
				ctx = logg.WithActorID(ctx, actorID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
