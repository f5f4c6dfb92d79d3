package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireArtist ensures the authenticated caller registered as an artist.
// Buyers hitting artist-only endpoints get 403, not 401: they are known,
// just not allowed.
func RequireArtist(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isArtist, ok := GetIsArtist(r.Context())
			if !ok {
				logger.Warn("Artist flag not found in context")
				respondWithError(w, http.StatusForbidden, "artist account required")
				return
			}

			if !isArtist {
				logger.Warn("Non-artist attempted an artist-only operation")
				respondWithError(w, http.StatusForbidden, "artist account required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
