// Package authjwt verifies the HS256 bearer tokens issued by the identity
// service.
package authjwt

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/acain89/SkillGrid/app/modules/auth/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Options configures an HMACProvider. Issuer and Audience are enforced only
// when non-empty.
type Options struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// HMACProvider signs and verifies tokens with a shared secret.
type HMACProvider struct {
	opts   Options
	parser *jwt.Parser
	now    func() time.Time
}

var (
	_ Verifier = (*HMACProvider)(nil)
	_ Signer   = (*HMACProvider)(nil)
)

func NewProvider(opts Options) *HMACProvider {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return &HMACProvider{
		opts:   opts,
		parser: jwt.NewParser(parserOpts...),
		now:    time.Now,
	}
}

func (p *HMACProvider) Sign(c *authdomain.Claims, ttl time.Duration) (string, error) {
	now := p.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   c.UserID,
			Issuer:    p.opts.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: string(c.Role),
	}
	if p.opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{p.opts.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.opts.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", c.UserID, err)
	}
	return signed, nil
}

func (p *HMACProvider) Verify(token string) (*authdomain.Claims, error) {
	var claims tokenClaims
	_, err := p.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(p.opts.Secret), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrBadSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return nil, ErrWrongAudience
	default:
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if claims.Subject == "" {
		return nil, ErrNoSubject
	}

	out := &authdomain.Claims{
		UserID: claims.Subject,
		Role:   authdomain.ParseRole(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
