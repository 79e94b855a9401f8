package audit

import (
	"admitly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuditRoutes configures all audit-related routes
func SetupAuditRoutes(rg *gin.RouterGroup, controller *Controller) {
	auditGroup := rg.Group("/audit")
	auditGroup.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleAdmin))
	{
		auditGroup.GET("/tickets/:code", controller.GetTicketHistory)        // GET /api/v1/audit/tickets/:code
		auditGroup.GET("/scanners/:scannerId", controller.GetScannerHistory) // GET /api/v1/audit/scanners/:scannerId
	}
}
