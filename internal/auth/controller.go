package auth

import (
	"net/http"

	"admitly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterScannerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		switch err {
		case ErrScannerAlreadyExists:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Scanner with this device id already exists", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to register scanner", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Scanner registered successfully", resp, nil)
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid device id or secret", nil, nil)
		case ErrScannerInactive:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Scanner has been deactivated", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to login", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case ErrInvalidToken, ErrTokenExpired:
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid or expired refresh token", nil, nil)
		case ErrScannerNotFound:
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Scanner not found", nil, nil)
		case ErrScannerInactive:
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Scanner has been deactivated", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to refresh token", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed successfully", tokenPair, nil)
}

func (c *Controller) Deactivate(ctx *gin.Context) {
	scannerID := ctx.Param("scannerId")
	if scannerID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Scanner id is required", nil, nil)
		return
	}

	err := c.service.Deactivate(ctx.Request.Context(), scannerID)
	if err != nil {
		switch err {
		case ErrScannerNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Scanner not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate scanner", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Scanner deactivated successfully", nil, nil)
}

func (c *Controller) GetMe(ctx *gin.Context) {
	scannerID, exists := ctx.Get("scanner_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Scanner not authenticated", nil, nil)
		return
	}

	role, _ := ctx.Get("user_role")

	scannerData := map[string]interface{}{
		"scanner_id": scannerID,
		"role":       role,
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Scanner data retrieved successfully", scannerData, nil)
}
