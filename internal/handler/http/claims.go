package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// scopeEmployee resolves the employee a request may act on. Managers may
// name any employee (or none); everyone else is pinned to their own subject.
func scopeEmployee(r *http.Request, requested string) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", jwt.ErrInvalidToken
	}

	role, ok := jwt.RoleFromClaims(claims)
	if !ok {
		return "", jwt.ErrInvalidToken
	}
	if role.CanManage() {
		return requested, nil
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", jwt.ErrInvalidToken
	}
	if requested != "" && requested != subject {
		return "", jwt.ErrManagerAccessRequired
	}
	return subject, nil
}

// decodeJSON reports false after writing a 400 when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, name string, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(name+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
