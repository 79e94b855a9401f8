package tickets

import (
	"admitly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures all ticket-related routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	tickets := rg.Group("/tickets")
	tickets.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleGate, middleware.RoleAdmin))
	{
		tickets.GET("/:code", controller.GetTicket) // GET /api/v1/tickets/:code
	}

	events := rg.Group("/events")
	events.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleAdmin))
	{
		events.GET("/:eventId/tickets", controller.GetEventTickets) // GET /api/v1/events/:eventId/tickets
	}
}
