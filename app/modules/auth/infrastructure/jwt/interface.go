package authjwt

import (
	"time"

	authdomain "github.com/acain89/SkillGrid/app/modules/auth/domain"
)

// Verifier turns a bearer token into claims.
type Verifier interface {
	Verify(token string) (*authdomain.Claims, error)
}

// Signer mints tokens. Production tokens come from the identity service, so
// only tooling and tests sign.
type Signer interface {
	Sign(claims *authdomain.Claims, ttl time.Duration) (string, error)
}
