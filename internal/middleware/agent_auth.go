package middleware

import (
	"strings"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/gin-gonic/gin"
)

// AgentAuthenticator is the subset of IdentityService this middleware
// needs: resolving a bearer key to an agent and refreshing presence.
type AgentAuthenticator interface {
	AuthenticateByKey(apiKey string) (*domain.Agent, error)
}

// AgentAuth authenticates requests carrying Authorization: Bearer clk_<...>.
func AgentAuth(identity AgentAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || !strings.HasPrefix(parts[1], "clk_") {
			common.Fail(c, common.Unauthenticated("missing or malformed api key"))
			c.Abort()
			return
		}

		agent, err := identity.AuthenticateByKey(parts[1])
		if err != nil {
			common.Fail(c, err)
			c.Abort()
			return
		}

		c.Set("agentID", agent.ID)
		c.Set("agent", agent)
		c.Next()
	}
}

// GetAgentID extracts the authenticated agent's id from context.
func GetAgentID(c *gin.Context) string {
	id, exists := c.Get("agentID")
	if !exists {
		return ""
	}
	if str, ok := id.(string); ok {
		return str
	}
	return ""
}

// GetAgent extracts the authenticated agent record from context.
func GetAgent(c *gin.Context) *domain.Agent {
	v, exists := c.Get("agent")
	if !exists {
		return nil
	}
	if a, ok := v.(*domain.Agent); ok {
		return a
	}
	return nil
}
