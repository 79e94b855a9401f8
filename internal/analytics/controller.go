package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admitly/internal/shared/utils/response"
)

// Controller defines the analytics controller interface
type Controller interface {
	GetDashboardAnalytics(c *gin.Context)
	GetScannerAnalytics(c *gin.Context)
	GetTicketUtilization(c *gin.Context)
}

// controller implements the Controller interface
type controller struct {
	service Service
}

// NewController creates a new analytics controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetDashboardAnalytics(c *gin.Context) {
	dashboard, err := ctrl.service.GetDashboardAnalytics(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

func (ctrl *controller) GetScannerAnalytics(c *gin.Context) {
	scannerID := c.Param("scannerId")
	if scannerID == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Scanner id is required", nil, nil)
		return
	}

	stats, err := ctrl.service.GetScannerAnalytics(c.Request.Context(), scannerID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Scanner analytics retrieved successfully", stats, nil)
}

func (ctrl *controller) GetTicketUtilization(c *gin.Context) {
	util, err := ctrl.service.GetTicketUtilization(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket utilization retrieved successfully", util, nil)
}
