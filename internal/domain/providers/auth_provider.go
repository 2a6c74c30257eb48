package providers

import (
	"errors"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

var (
	// ErrTokenExpired is returned by Decode for a well-formed token past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned by Decode for any other unusable token
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenIssuer issues and decodes access tokens with a fixed validity window
type TokenIssuer interface {
	Issue(claims entities.TokenClaims) (string, error)
	Decode(token string) (*entities.TokenClaims, error)
}

// PasswordHasher hashes and verifies admin passwords
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}
