package middleware

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/httprate"
)

// PunchRateLimit limits requests per authenticated user, falling back to
// the client IP when no principal is set. Non-positive limits disable it.
func PunchRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	keyFunc := func(r *http.Request) (string, error) {
		if p, ok := auth.PrincipalFromContext(r.Context()); ok {
			return "user:" + p.UserID, nil
		}
		return httprate.KeyByIP(r)
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many punch attempts, try again shortly")
		}),
	)
}
