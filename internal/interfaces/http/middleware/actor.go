package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/utils"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	ContextKeyActor = "actor"
)

// ActorMiddleware trusts the identity asserted by the upstream gateway.
type ActorMiddleware struct {
	logger logger.Interface
}

func NewActorMiddleware(logger logger.Interface) *ActorMiddleware {
	return &ActorMiddleware{logger: logger}
}

// RequireActor rejects requests without an actor ID. An unknown role is
// treated as citizen.
func (m *ActorMiddleware) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := strings.TrimSpace(c.GetHeader(HeaderActorID))
		if actorID == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing actor identity")
			c.Abort()
			return
		}

		rawRole := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderActorRole)))
		role := authorization.ParseUserRole(rawRole)
		if rawRole != "" && rawRole != role.String() {
			m.logger.Warnw("unknown actor role, falling back to citizen",
				"actor_id", actorID,
				"role", rawRole)
		}

		c.Set(ContextKeyActor, authorization.Actor{ID: actorID, Role: role})
		c.Next()
	}
}

// GetActor returns the actor set by RequireActor.
func GetActor(c *gin.Context) (authorization.Actor, bool) {
	v, exists := c.Get(ContextKeyActor)
	if !exists {
		return authorization.Actor{}, false
	}
	actor, ok := v.(authorization.Actor)
	return actor, ok
}
