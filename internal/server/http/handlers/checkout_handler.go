package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/merchware/creditledger/internal/domain/errors"
	"github.com/merchware/creditledger/internal/server/http/dto"
)

// CheckoutHandler serves redemption quotes and commits.
type CheckoutHandler struct {
	facade CheckoutFacade
	now    func() time.Time
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade, now: time.Now}
}

// Quote handles POST /api/checkout/quote.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.Quote(c.Request.Context(), req.CustomerID, subtotal, h.now())
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidAmount):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{
		Amount:          result.Amount.String(),
		EligibleBalance: result.EligibleBalance.String(),
		Reason:          result.Reason,
	})
}

// Redeem handles POST /api/checkout/redeem.
func (h *CheckoutHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err = h.facade.Redeem(c.Request.Context(), req.CustomerID, amount, req.OrderNumber, h.now())
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInsufficientBalance):
			c.Status(http.StatusPaymentRequired)
		case errors.Is(err, domainErrors.ErrInvalidAmount),
			errors.Is(err, domainErrors.ErrNoCustomer):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
