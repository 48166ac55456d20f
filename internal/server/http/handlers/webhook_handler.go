package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/domain/model"
	"github.com/merchware/creditledger/internal/server/http/dto"
)

// WebhookHandler receives order-paid notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// OrderPaid handles POST /api/webhooks/orders.
func (h *WebhookHandler) OrderPaid(c *gin.Context) {
	var req dto.OrderEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.ProcessedAt.IsZero() {
		c.Status(http.StatusBadRequest)
		return
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	event := model.OrderEvent{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Total:      total,
		Currency:   req.Currency,
		OrderAt:    req.ProcessedAt,
	}

	stored, created, err := h.facade.EnqueueOrderEvent(c.Request.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOrderID),
			errors.Is(err, domainErrors.ErrNoCustomer),
			errors.Is(err, domainErrors.ErrInvalidOrderAmount):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	status := http.StatusAccepted
	if !created {
		// Redelivery: acknowledge without re-queueing.
		status = http.StatusOK
	}
	c.JSON(status, dto.OrderEventResponse{OrderID: stored.OrderID, Status: string(stored.Status)})
}
