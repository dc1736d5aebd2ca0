package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"portfolio-backend-refactor/pkg/utils"
)

// Recoverer converts handler panics into a 500 envelope instead of
// tearing down the connection.
func Recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					utils.WriteInternalServerErrorResponse(w, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
