// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"admitly/internal/analytics"
	"admitly/internal/audit"
	"admitly/internal/auth"
	"admitly/internal/credentials"
	"admitly/internal/scans"
	"admitly/internal/shared/config"
	"admitly/internal/shared/database"
	"admitly/internal/tickets"
	"admitly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	producer     audit.EventProducer

	// Wired during SetupRoutes, reused by background jobs.
	engine     *scans.Engine
	reconciler *scans.Reconciler
}

// NewRouter creates a new router instance. The producer may be nil when the
// Kafka audit feed is disabled.
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, producer audit.EventProducer) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cacheService,
		producer:     producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		auditService := r.setupAuditRoutes(api)
		ticketService := r.setupTicketRoutes(api)
		r.setupScanRoutes(api, ticketService, auditService)
		r.setupAnalyticsRoutes(api)
	}
}

// Engine returns the sync engine wired during SetupRoutes.
func (r *Router) Engine() *scans.Engine {
	return r.engine
}

// Reconciler returns the reconciler wired during SetupRoutes.
func (r *Router) Reconciler() *scans.Reconciler {
	return r.reconciler
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "admitly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "admitly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures scanner authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupAuditRoutes configures audit history routes
func (r *Router) setupAuditRoutes(rg *gin.RouterGroup) audit.Service {
	auditStore := audit.NewStore(r.db.GetPostgreSQL())
	auditService := audit.NewService(auditStore, r.producer)
	auditController := audit.NewController(auditService)

	audit.SetupAuditRoutes(rg, auditController)

	return auditService
}

// setupTicketRoutes configures ticket inspection routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) tickets.Service {
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	ticketService := tickets.NewService(ticketRepo, r.cacheService, r.config.Scan.SnapshotTTL)
	ticketController := tickets.NewController(ticketService)

	tickets.SetupTicketRoutes(rg, ticketController)

	return ticketService
}

// setupScanRoutes configures scan admission, queue and sync routes
func (r *Router) setupScanRoutes(rg *gin.RouterGroup, ticketService tickets.Service, auditService audit.Service) {
	idemGuard := scans.NewIdempotencyGuard(r.cacheService, r.config.Scan.IdempotencyTTL)
	processor := scans.NewProcessor(ticketService, auditService, idemGuard)

	queue := scans.NewQueue(r.db.GetPostgreSQL())
	resolver := scans.NewConflictResolver(ticketService)
	submitter := scans.NewProcessorSubmitter(processor)

	r.engine = scans.NewEngine(queue, resolver, submitter, scans.EngineConfig{
		MaxRetries: r.config.Scan.MaxSyncRetries,
		ItemDelay:  r.config.Scan.SyncItemDelay,
	})
	r.reconciler = scans.NewReconciler(queue, resolver, r.engine)

	verifier := credentials.NewVerifier()
	scanController := scans.NewController(processor, queue, r.engine, r.reconciler, verifier, r.cacheService)

	scans.SetupScanRoutes(rg, scanController)
}

// setupAnalyticsRoutes configures admission analytics routes
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo, r.cacheService)
	analyticsController := analytics.NewController(analyticsService)

	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}
