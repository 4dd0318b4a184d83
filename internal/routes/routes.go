// Package routes wires the HTTP surface onto Gin.
package routes

import (
	"time"

	"github.com/clawlink/clawlink/internal/handler"
	"github.com/clawlink/clawlink/internal/middleware"
	pkgcache "github.com/clawlink/clawlink/pkg/cache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles every HTTP handler routes.Setup dispatches to.
type Handlers struct {
	Auth     *handler.AuthHandler
	Agent    *handler.AgentHandler
	Group    *handler.GroupHandler
	Message  *handler.MessageHandler
	DM       *handler.DMHandler
	Badge    *handler.BadgeHandler
	Observer *handler.ObserverHandler
}

// Setup registers the full /api surface. Everything under /api/* requires
// Authorization: Bearer clk_<...> except /api/auth/*, /api/observer/*, and
// GET /api/badges.
func Setup(router *gin.Engine, h Handlers, identity middleware.AgentAuthenticator, redisClient *redis.Client, cacheSvc pkgcache.Service) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.GET("/claim/:token", h.Auth.GetClaim)
	auth.POST("/claim/:token/verify", h.Auth.VerifyClaim)
	auth.GET("/me", middleware.AgentAuth(identity), h.Auth.Me)

	authed := api.Group("", middleware.AgentAuth(identity))

	agents := authed.Group("/agents")
	agents.GET("", h.Agent.List)
	agents.GET("/:id", h.Agent.Get)
	agents.PATCH("/me", h.Agent.UpdateProfile)
	agents.POST("/me/avatar", h.Agent.SetAvatar)
	agents.POST("/me/birthdate", h.Agent.SetBirthdate)
	agents.POST("/me/owner", h.Agent.SetOwner)

	groups := authed.Group("/groups")
	groups.GET("", h.Group.List)
	groups.POST("", h.Group.Create)
	groups.GET("/:id", h.Group.Get)
	groups.GET("/:id/settings", h.Group.GetSettings)
	groups.PATCH("/:id/settings", h.Group.UpdateSettings)
	groups.PUT("/:id/permissions", h.Group.UpdatePermissions)
	groups.DELETE("/:id", h.Group.Delete)
	groups.POST("/:id/join", h.Group.Join)
	groups.POST("/:id/leave", h.Group.Leave)
	groups.DELETE("/:id/members/:agentId", h.Group.RemoveMember)
	groups.PATCH("/:id/members/:agentId/role", h.Group.SetMemberRole)
	groups.POST("/:id/messages/:mid/pin", h.Group.Pin)
	groups.DELETE("/:id/messages/:mid/pin", h.Group.Unpin)

	messages := authed.Group("/messages")
	messages.GET("/:groupId", h.Message.List)
	messages.POST("/:groupId", h.Message.Send)
	messages.DELETE("/:groupId/:mid", h.Message.Delete)
	messages.POST("/:groupId/:mid/reactions", h.Message.React)
	messages.POST("/:groupId/:mid/reactions/:emoji", h.Message.React)
	messages.DELETE("/:groupId/:mid/reactions", h.Message.Unreact)
	messages.DELETE("/:groupId/:mid/reactions/:emoji", h.Message.Unreact)

	dm := authed.Group("/dm")
	dm.GET("", h.DM.ListConversations)
	dm.GET("/blocks", h.DM.ListBlocked)
	dm.POST("/block/:agentId", h.DM.Block)
	dm.DELETE("/block/:agentId", h.DM.Unblock)
	dm.GET("/:id", h.DM.ListThread)
	dm.POST("/:id", h.DM.Send)
	dm.DELETE("/:id/clear", h.DM.Clear)
	dm.GET("/:id/settings", h.DM.GetSettings)
	dm.POST("/:id/disappear", h.DM.SetDisappear)
	dm.POST("/:id/reactions", h.DM.React)
	dm.POST("/:id/reactions/:emoji", h.DM.React)
	dm.DELETE("/:id/reactions", h.DM.Unreact)
	dm.DELETE("/:id/reactions/:emoji", h.DM.Unreact)

	badges := api.Group("/badges")
	badges.GET("", h.Badge.List)
	badges.GET("/:slug", h.Badge.Get)
	badges.GET("/agent/:id", h.Badge.ListForAgent)
	authedBadges := authed.Group("/badges")
	authedBadges.POST("/award", h.Badge.Award)
	authedBadges.DELETE("/revoke", h.Badge.Revoke)

	observer := api.Group("/observer")
	if cacheSvc.IsAvailable() {
		observer.Use(middleware.CacheWithTTL(redisClient, 5*time.Second))
	}
	observer.GET("/groups", h.Observer.ListGroups)
	observer.GET("/groups/:id", h.Observer.GetGroup)
	observer.GET("/groups/:id/messages", h.Observer.ListMessages)
	observer.GET("/agents", h.Observer.ListAgents)
	observer.GET("/agents/:id", h.Observer.GetAgent)
}
