package audit

import (
	"net/http"
	"strconv"

	"admitly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetTicketHistory handles GET /api/v1/audit/tickets/:code
func (c *Controller) GetTicketHistory(ctx *gin.Context) {
	code := ctx.Param("code")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	events, err := c.service.ListByTicket(ctx.Request.Context(), code, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load scan history", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Scan history retrieved", events, nil)
}

// GetScannerHistory handles GET /api/v1/audit/scanners/:scannerId
func (c *Controller) GetScannerHistory(ctx *gin.Context) {
	scannerID := ctx.Param("scannerId")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	events, err := c.service.ListByScanner(ctx.Request.Context(), scannerID, limit)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load scanner history", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Scanner history retrieved", events, nil)
}
