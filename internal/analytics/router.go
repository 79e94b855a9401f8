package analytics

import (
	"admitly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.JWTAuth())
	analytics.Use(middleware.RequireAdmin())

	analytics.GET("/dashboard", controller.GetDashboardAnalytics)
	analytics.GET("/scanners/:scannerId", controller.GetScannerAnalytics)
	analytics.GET("/tickets", controller.GetTicketUtilization)
}
