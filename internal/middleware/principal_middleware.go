package middleware

import (
	"context"

	"go-leave/internal/domain"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// PrincipalLoader resolves an authenticated user id into roles and the
// team-lead relation.
type PrincipalLoader interface {
	GetPrincipal(ctx context.Context, userID string) (domain.Principal, error)
}

// LoadPrincipal must run after AuthMiddleware.
func LoadPrincipal(loader PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := loader.GetPrincipal(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Request = c.Request.WithContext(contextutil.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// SetPrincipal is used by tests and by callers that resolve the principal
// themselves.
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.UserID)
	if c.Request != nil {
		ctx := contextutil.WithUserID(c.Request.Context(), p.UserID)
		c.Request = c.Request.WithContext(contextutil.WithPrincipal(ctx, p))
	}
}
