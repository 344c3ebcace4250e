package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// AnonymousPrincipal is the reserved identity assigned to requests that carry
// no valid bearer token. It can never own an account.
const AnonymousPrincipal = "2vxsx-fae"

const principalKey = "principal"

// Principal returns the caller identity resolved by the middleware. Requests
// without a valid bearer token carry the anonymous principal.
func Principal(c *gin.Context) string {
	if p, ok := c.Get(principalKey); ok {
		if principal, ok := p.(string); ok {
			return principal
		}
	}
	return AnonymousPrincipal
}

// Middleware resolves the Authorization header to a principal. A missing or
// invalid token does not fail the request; the caller simply stays anonymous
// and the engine rejects whatever the anonymous principal may not do.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := AnonymousPrincipal

		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok {
			if p, err := s.principalFromToken(raw); err == nil {
				principal = p
			}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}
