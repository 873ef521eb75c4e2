package routes

import (
	"github.com/gin-gonic/gin"

	complainthandlers "github.com/civictrack/civictrack/internal/interfaces/http/handlers/complaint"
	"github.com/civictrack/civictrack/internal/interfaces/http/middleware"
)

type ComplaintRouteConfig struct {
	ComplaintHandler        *complainthandlers.ComplaintHandler
	AdminHandler            *complainthandlers.AdminHandler
	ActorMiddleware         *middleware.ActorMiddleware
	AuthorizationMiddleware *middleware.AuthorizationMiddleware
	// SubmitLimiter is optional; nil disables submission rate limiting.
	SubmitLimiter *middleware.RateLimiter
}

func SetupComplaintRoutes(engine *gin.Engine, config *ComplaintRouteConfig) {
	authenticated := engine.Group("")
	authenticated.Use(
		config.ActorMiddleware.RequireActor(),
		config.AuthorizationMiddleware.RequireRouteAccess(),
	)

	complaints := authenticated.Group("/complaints")
	{
		submit := []gin.HandlerFunc{config.ComplaintHandler.CreateComplaint}
		if config.SubmitLimiter != nil {
			submit = append([]gin.HandlerFunc{config.SubmitLimiter.Limit()}, submit...)
		}
		complaints.POST("", submit...)

		// Static segments take precedence over /:id in gin's router.
		complaints.GET("/mine", config.ComplaintHandler.ListMyComplaints)
		complaints.GET("/nearby", config.ComplaintHandler.ListNearbyComplaints)
		complaints.GET("/:id", config.ComplaintHandler.GetComplaint)
		complaints.PATCH("/:id/status", config.ComplaintHandler.UpdateStatus)
		complaints.POST("/:id/feedback", config.ComplaintHandler.SubmitFeedback)
	}

	officer := authenticated.Group("/officer")
	{
		officer.GET("/complaints", config.ComplaintHandler.ListOfficerComplaints)
	}

	admin := authenticated.Group("/admin")
	{
		admin.GET("/complaints", config.AdminHandler.ListComplaints)
		admin.GET("/stats", config.AdminHandler.GetStats)
		admin.POST("/complaints/:id/assign", config.AdminHandler.AssignComplaint)
		admin.POST("/complaints/:id/reevaluate", config.AdminHandler.ReevaluatePriority)
		admin.POST("/escalations/run", config.AdminHandler.RunEscalationSweep)
	}
}
