package tickets

import (
	"errors"
	"net/http"
	"strconv"

	"admitly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetTicket handles GET /api/v1/tickets/:code
func (c *Controller) GetTicket(ctx *gin.Context) {
	code := ctx.Param("code")

	ticket, err := c.service.GetByCode(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load ticket", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket retrieved", ticket.ToResponse(), nil)
}

// GetEventTickets handles GET /api/v1/events/:eventId/tickets
func (c *Controller) GetEventTickets(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("eventId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	tickets, totalCount, err := c.service.GetByEventID(ctx.Request.Context(), eventID, limit, offset)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load tickets", nil, err.Error())
		return
	}

	resp := TicketListResponse{
		Tickets:    make([]TicketResponse, 0, len(tickets)),
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	}
	for i := range tickets {
		resp.Tickets = append(resp.Tickets, tickets[i].ToResponse())
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tickets retrieved", resp, nil)
}
