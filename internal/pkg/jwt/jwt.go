package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Role is carried in the "role" claim of access tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanManage reports whether the role may change payroll, leave decisions
// and calendar data.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

const TokenTypeAccess = "access"

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidRole           = errors.New("invalid role")
	ErrManagerAccessRequired = errors.New("manager or admin access required")
)

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	// IssueAccessToken signs an access token for subject. Tokens are minted by
	// operators; there is no login flow.
	IssueAccessToken(subject string, role Role, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:       time.Now,
	}
}

func (j *JWTService) IssueAccessToken(subject string, role Role, ttl time.Duration) (token string, expiresAt int64, err error) {
	if !role.Valid() {
		return "", 0, ErrInvalidRole
	}
	expiresAt = j.now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"role": string(role),
		"type": TokenTypeAccess,
		"exp":  expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RoleFromClaims extracts the role claim; unknown values are rejected.
func RoleFromClaims(claims map[string]interface{}) (Role, bool) {
	s, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	role := Role(s)
	return role, role.Valid()
}
