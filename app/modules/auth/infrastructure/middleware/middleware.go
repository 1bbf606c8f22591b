// Package authmiddleware holds the HTTP middleware guarding the SkillGrid API.
package authmiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	authdomain "github.com/acain89/SkillGrid/app/modules/auth/domain"
	authjwt "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/jwt"
	"github.com/acain89/SkillGrid/internal/httpx"
	"github.com/acain89/SkillGrid/internal/observability/attr"
)

type claimsKey struct{}

// WithClaims stores verified claims on ctx.
func WithClaims(ctx context.Context, c *authdomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims Authenticate stored, if any.
func ClaimsFromContext(ctx context.Context) (*authdomain.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*authdomain.Claims)
	return c, ok && c != nil
}

// Authenticate requires an "Authorization: Bearer <jwt>" header the verifier
// accepts and puts the resulting claims on the request context.
func Authenticate(verifier authjwt.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, _ := strings.Cut(r.Header.Get("Authorization"), " ")
			if !strings.EqualFold(scheme, "Bearer") || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="skillgrid"`)
				httpx.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				// Expiry is routine; anything else is worth a look.
				if !errors.Is(err, authjwt.ErrTokenExpired) {
					logger.WarnContext(r.Context(), "Rejected bearer token",
						attr.String("path", r.URL.Path),
						attr.String("remote_addr", r.RemoteAddr),
						attr.Error(err),
					)
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="skillgrid", error="invalid_token"`)
				httpx.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireOperator lets only operator tokens through. It must run after
// Authenticate.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if !claims.IsOperator() {
			httpx.WriteError(w, http.StatusForbidden, "operator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
