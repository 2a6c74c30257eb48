package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
)

// accessClaims is the JWT payload
type accessClaims struct {
	UserID   string            `json:"user_id"`
	Phone    string            `json:"phone,omitempty"`
	Username string            `json:"username,omitempty"`
	Role     entities.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs access tokens with HS256
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a token issuer. ttl is the validity window of every token.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs claims into a token that expires ttl from now
func (i *JWTIssuer) Issue(claims entities.TokenClaims) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		UserID:   claims.UserID,
		Phone:    claims.Phone,
		Username: claims.Username,
		Role:     claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of a token and returns its claims
func (i *JWTIssuer) Decode(tokenString string) (*entities.TokenClaims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, providers.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", providers.ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, providers.ErrTokenInvalid
	}

	return &entities.TokenClaims{
		UserID:   claims.UserID,
		Phone:    claims.Phone,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
