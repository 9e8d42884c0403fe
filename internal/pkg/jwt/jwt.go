package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrMissingIdentity = errors.New("token is missing user or tenant identity")

// Identity is the caller identity carried in access-token claims. Tokens are
// issued by the upstream identity service; this API only verifies them.
type Identity struct {
	UserID   string
	TenantID string
	Role     string
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(identity Identity) (token string, expiresAt int64, err error)
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateAccessToken mints a token for dev tooling and tests. Production
// tokens come from the identity service with the same claim shape.
func (j *JWTService) GenerateAccessToken(identity Identity) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":   identity.UserID,
		"tenant_id": identity.TenantID,
		"role":      identity.Role,
		"type":      "access",
		"exp":       expiresAt,
	})
	return tokenString, expiresAt, err
}

// FromContext extracts the caller identity from verified token claims.
func FromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}

	userID, _ := claims["user_id"].(string)
	tenantID, _ := claims["tenant_id"].(string)
	role, _ := claims["role"].(string)

	if userID == "" || tenantID == "" {
		return Identity{}, ErrMissingIdentity
	}

	return Identity{UserID: userID, TenantID: tenantID, Role: role}, nil
}
