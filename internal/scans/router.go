package scans

import (
	"admitly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupScanRoutes configures all scan-related routes
func SetupScanRoutes(rg *gin.RouterGroup, controller *Controller) {
	scans := rg.Group("/scans")
	scans.Use(middleware.JWTAuth(), middleware.RequireRoles(middleware.RoleGate, middleware.RoleAdmin))
	{
		// Online submission
		scans.POST("", controller.SubmitScan) // POST /api/v1/scans

		// Offline queue
		scans.POST("/queue", controller.EnqueueScan)     // POST /api/v1/scans/queue
		scans.GET("/queue/stats", controller.QueueStats) // GET  /api/v1/scans/queue/stats

		// Synchronization
		scans.POST("/sync", controller.SyncBatch)       // POST /api/v1/scans/sync
		scans.POST("/sync/run", controller.TriggerSync) // POST /api/v1/scans/sync/run

		// Reconciliation and diagnostics
		scans.POST("/reconcile", controller.Reconcile)       // POST /api/v1/scans/reconcile
		scans.GET("/verify/:localId", controller.VerifyScan) // GET  /api/v1/scans/verify/:localId
	}
}
