package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// SuperAdminOnly admits platform operators only.
func SuperAdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrUnauthenticated)
			return
		}

		if !principal.IsSuperAdmin() {
			response.HandleError(w, auth.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
