package scans

import (
	"errors"
	"log/slog"
	"net/http"

	"admitly/internal/credentials"
	"admitly/internal/shared/constants"
	"admitly/internal/shared/middleware"
	"admitly/internal/shared/utils/response"
	"admitly/pkg/cache"
	"admitly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	processor  Processor
	queue      Queue
	engine     *Engine
	reconciler *Reconciler
	verifier   credentials.Verifier
	cache      cache.Service
	validator  *validator.Validate
}

func NewController(processor Processor, queue Queue, engine *Engine, reconciler *Reconciler, verifier credentials.Verifier, cacheService cache.Service) *Controller {
	return &Controller{
		processor:  processor,
		queue:      queue,
		engine:     engine,
		reconciler: reconciler,
		verifier:   verifier,
		cache:      cacheService,
		validator:  validator.New(),
	}
}

// SubmitScan handles POST /api/v1/scans
func (c *Controller) SubmitScan(ctx *gin.Context) {
	var req SubmitScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	kind, err := ParseOperationKind(req.Operation)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Unknown operation type", nil, err.Error())
		return
	}
	switch kind {
	case OperationAccess:
		// handled below
	case OperationPayment:
		// Wallet charges belong to the payment pipeline; the gate only
		// admits people.
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Payment operations are not handled at the admission gate", nil, nil)
		return
	}

	method := Method(req.Method)
	if req.Method == "" {
		method = MethodQR
	}

	// The authenticated device identity wins over whatever the body claims.
	scannerID := req.ScannerID
	if id := middleware.ScannerID(ctx); id != "" {
		scannerID = id
	}

	resolved, err := c.verifier.Verify(ctx.Request.Context(), req.Payload, string(method))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Credential verification failed", nil, err.Error())
		return
	}
	if !resolved.Valid {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid credential", nil, resolved.Reason)
		return
	}

	result, err := c.processor.Process(ctx.Request.Context(), ProcessRequest{
		TicketCode:     resolved.TicketCode,
		ScannerID:      scannerID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Method:         method,
		DeviceInfo:     req.DeviceInfo,
		IdempotencyKey: req.LocalID,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Scan could not be processed, try again", nil, err.Error())
		return
	}

	resp := &SubmitScanResponse{Result: result, Band: resolved.Band}
	if result.Success {
		response.RespondJSON(ctx, "success", http.StatusOK, "Scan accepted", resp, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Scan rejected", resp, nil)
}

// EnqueueScan handles POST /api/v1/scans/queue
func (c *Controller) EnqueueScan(ctx *gin.Context) {
	var req EnqueueScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	method := Method(req.Method)
	if req.Method == "" {
		method = MethodQR
	}

	// The authenticated device identity wins over whatever the body claims.
	scannerID := req.ScannerID
	if id := middleware.ScannerID(ctx); id != "" {
		scannerID = id
	}

	resolved, err := c.verifier.Verify(ctx.Request.Context(), req.Payload, string(method))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Credential verification failed", nil, err.Error())
		return
	}
	if !resolved.Valid {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid credential", nil, resolved.Reason)
		return
	}

	scan := &QueuedScan{
		ID:         uuid.New(),
		LocalID:    req.LocalID,
		TicketCode: resolved.TicketCode,
		ScannerID:  scannerID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Method:     method,
		DeviceInfo: req.DeviceInfo,
		CapturedAt: req.CapturedAt.UTC(),
		Status:     QueuedPending,
	}

	if err := c.queue.Enqueue(ctx.Request.Context(), scan); err != nil {
		if errors.Is(err, ErrDuplicateLocalID) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Scan with this local id is already queued", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to queue scan", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Scan queued", &EnqueueScanResponse{
		LocalID:    scan.LocalID,
		Status:     scan.Status,
		CapturedAt: scan.CapturedAt,
	}, nil)
}

// SyncBatch handles POST /api/v1/scans/sync
func (c *Controller) SyncBatch(ctx *gin.Context) {
	var req BatchSyncRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	batch := make([]QueuedScan, 0, len(req.Scans))
	for _, item := range req.Scans {
		method := Method(item.Method)
		if item.Method == "" {
			method = MethodQR
		}
		batch = append(batch, QueuedScan{
			LocalID:    item.LocalID,
			TicketCode: item.TicketCode,
			ScannerID:  item.ScannerID,
			Latitude:   item.Latitude,
			Longitude:  item.Longitude,
			Method:     method,
			DeviceInfo: item.DeviceInfo,
			CapturedAt: item.CapturedAt.UTC(),
			Status:     QueuedPending,
		})
	}

	summary := c.engine.ProcessBatch(ctx.Request.Context(), batch)
	response.RespondJSON(ctx, "success", http.StatusOK, "Batch processed", summary, nil)
}

// TriggerSync handles POST /api/v1/scans/sync/run
func (c *Controller) TriggerSync(ctx *gin.Context) {
	summary, err := c.engine.Sync(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "A sync pass is already running", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Sync failed", summary, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Sync completed", summary, nil)
}

// Reconcile handles POST /api/v1/scans/reconcile
func (c *Controller) Reconcile(ctx *gin.Context) {
	summary, err := c.reconciler.Reconcile(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Reconciliation failed", summary, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reconciliation completed", summary, nil)
}

// VerifyScan handles GET /api/v1/scans/verify/:localId
func (c *Controller) VerifyScan(ctx *gin.Context) {
	localID := ctx.Param("localId")

	check, err := c.reconciler.VerifyServerState(ctx.Request.Context(), localID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Queued scan not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Verification failed", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Server state checked", check, nil)
}

// QueueStats handles GET /api/v1/scans/queue/stats
func (c *Controller) QueueStats(ctx *gin.Context) {
	// Dashboards poll this endpoint; a short cache keeps the count query
	// off the hot path.
	if c.cache != nil {
		var cached QueueStats
		if err := c.cache.Get(ctx.Request.Context(), constants.CACHE_KEY_QUEUE_STATS, &cached); err == nil {
			response.RespondJSON(ctx, "success", http.StatusOK, "Queue stats", &cached, nil)
			return
		}
	}

	stats, err := c.queue.Stats(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to read queue stats", nil, err.Error())
		return
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx.Request.Context(), constants.CACHE_KEY_QUEUE_STATS, stats, constants.TTL_QUEUE_STATS); err != nil {
			logger.GetDefault().Warn("failed to cache queue stats", slog.String("error", err.Error()))
		}
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Queue stats", stats, nil)
}
