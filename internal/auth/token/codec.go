// Package token decodes access tokens client-side for UX hints: pre-empting
// calls that would fail and scheduling proactive refresh. No signature
// verification happens here; the server is the sole authority on validity.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inspecthub/internal/auth/models"
	dErrors "inspecthub/pkg/domain-errors"
)

// DefaultPlaceholderPrefix marks locally-issued placeholder tokens that are
// exempt from client-side expiry checks. Dev/demo accommodation only.
const DefaultPlaceholderPrefix = "mock-"

// placeholderLifetime is the fixed remaining lifetime reported for
// placeholder tokens.
const placeholderLifetime = time.Hour

type codecClaims struct {
	Email          string          `json:"email,omitempty"`
	Role           models.UserRole `json:"role,omitempty"`
	OrganizationID string          `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}

// Codec inspects bearer tokens without verifying them.
type Codec struct {
	parser            *jwt.Parser
	placeholderPrefix string // empty disables the exemption
}

// Option configures a Codec.
type Option func(*Codec)

// WithPlaceholderPrefix sets the prefix that marks non-expiring placeholder
// tokens. An empty prefix disables the exemption entirely, which is the
// correct setting for production builds.
func WithPlaceholderPrefix(prefix string) Option {
	return func(c *Codec) {
		c.placeholderPrefix = prefix
	}
}

// NewCodec constructs a Codec with options applied.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		parser:            jwt.NewParser(),
		placeholderPrefix: DefaultPlaceholderPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsPlaceholder reports whether the token carries the local placeholder
// prefix and the exemption is enabled.
func (c *Codec) IsPlaceholder(token string) bool {
	return c.placeholderPrefix != "" && strings.HasPrefix(token, c.placeholderPrefix)
}

// Decode parses the token's payload segment without verifying the signature.
// Returns a malformed_token error for anything that does not parse; callers
// treat that the same as "no claims available".
func (c *Codec) Decode(token string) (*models.Claims, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeMalformedToken, "empty token")
	}
	var claims codecClaims
	if _, _, err := c.parser.ParseUnverified(token, &claims); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeMalformedToken, "failed to decode token payload", err)
	}
	decoded := &models.Claims{
		Subject:        claims.Subject,
		Email:          claims.Email,
		Role:           claims.Role,
		OrganizationID: claims.OrganizationID,
		TokenID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return decoded, nil
}

// IsExpired reports whether the token's advisory expiry has passed. Tokens
// without decodable claims or without an exp claim are treated as
// non-expiring; a server rejection is what proves them invalid.
func (c *Codec) IsExpired(token string, now time.Time) bool {
	if c.IsPlaceholder(token) {
		return false
	}
	claims, err := c.Decode(token)
	if err != nil || claims.ExpiresAt == 0 {
		return false
	}
	return time.Unix(claims.ExpiresAt, 0).Before(now) || time.Unix(claims.ExpiresAt, 0).Equal(now)
}

// Remaining returns the advisory lifetime left on the token. The second
// return is false when no expiry information is available. Placeholder
// tokens report a fixed lifetime so the session monitor leaves them alone.
func (c *Codec) Remaining(token string, now time.Time) (time.Duration, bool) {
	if c.IsPlaceholder(token) {
		return placeholderLifetime, true
	}
	claims, err := c.Decode(token)
	if err != nil || claims.ExpiresAt == 0 {
		return 0, false
	}
	return time.Unix(claims.ExpiresAt, 0).Sub(now), true
}
