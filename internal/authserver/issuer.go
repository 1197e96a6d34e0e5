package authserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inspecthub/internal/auth/models"
	dErrors "inspecthub/pkg/domain-errors"
)

// accessClaims is the signed payload of an issued access token.
type accessClaims struct {
	Email          string          `json:"email"`
	Role           models.UserRole `json:"role"`
	OrganizationID string          `json:"organizationId"`
	jwt.RegisteredClaims
}

// Issuer creates and validates HS256 access tokens for the dev server.
type Issuer struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// NewIssuer constructs an Issuer with the given key and access token TTL.
func NewIssuer(signingKey string, tokenTTL time.Duration) *Issuer {
	return &Issuer{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// TokenTTL returns the configured access token lifetime.
func (i *Issuer) TokenTTL() time.Duration {
	return i.tokenTTL
}

// IssueAccessToken signs a fresh access token for the user and returns the
// token string and its JTI.
func (i *Issuer) IssueAccessToken(user *models.User, now time.Time) (string, string, error) {
	jti := uuid.New().String()
	claims := accessClaims{
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
	if err != nil {
		return "", "", dErrors.Wrap(dErrors.CodeInternal, "failed to sign access token", err)
	}
	return signed, jti, nil
}

// NewRefreshToken mints an opaque single-use refresh token value.
func NewRefreshToken() string {
	return "rt_" + uuid.New().String()
}

// ValidateAccessToken verifies signature and expiry, returning the claims.
func (i *Issuer) ValidateAccessToken(tokenString string) (*accessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return i.signingKey, nil
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnauthorized, "invalid or expired token", err)
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
