package middleware

import (
	"net/http"
	"strings"

	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
)

const actorIDHeader = "X-Actor-Id"

// Actor reads the identity forwarded by the auth proxy. Requests without
// the header stay anonymous; per-actor features such as the
// recently-viewed list simply no-op for them.
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
