package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Issuer is embedded in every issued token and required during verification.
const Issuer = "product-catalog"

// Claims carried by issued tokens. The subject is the username; the role is
// deliberately not embedded and must be resolved with a fresh store lookup.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed bearer tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration // zero disables expiry
}

// NewJWTService creates a new JWT service with the given secret. A non-zero
// ttl adds an exp claim to issued tokens, which Verify then enforces.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given username.
func (s *JWTService) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, issuer and structural well-formedness (plus
// expiry when the token carries one). An invalid token is a normal outcome
// reported through ok, not an error.
func (s *JWTService) Verify(tokenString string) (*Claims, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Issuer != Issuer || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}
