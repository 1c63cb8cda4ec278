package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, jwt.ErrManagerAccessRequired)
			return
		}

		role, ok := jwt.RoleFromClaims(claims)
		if !ok || !role.CanManage() {
			response.HandleError(w, jwt.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
