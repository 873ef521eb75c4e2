package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/utils"
)

// RouteEnforcer decides whether a role may call method on path.
type RouteEnforcer interface {
	Enforce(role authorization.UserRole, path, method string) (bool, error)
}

type AuthorizationMiddleware struct {
	enforcer RouteEnforcer
	logger   logger.Interface
}

func NewAuthorizationMiddleware(enforcer RouteEnforcer, logger logger.Interface) *AuthorizationMiddleware {
	return &AuthorizationMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequireRouteAccess must run after RequireActor.
func (m *AuthorizationMiddleware) RequireRouteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing actor identity")
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		allowed, err := m.enforcer.Enforce(actor.Role, path, c.Request.Method)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "actor_id", actor.ID, "path", path)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"actor_id", actor.ID,
				"role", actor.Role,
				"method", c.Request.Method,
				"path", path)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
