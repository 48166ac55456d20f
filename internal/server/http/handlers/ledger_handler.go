package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merchware/creditledger/internal/server/http/dto"
)

// LedgerHandler serves read-only customer credit state.
type LedgerHandler struct {
	facade LedgerFacade
	now    func() time.Time
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(facade LedgerFacade) *LedgerHandler {
	return &LedgerHandler{facade: facade, now: time.Now}
}

// Balance handles GET /api/customers/:id/balance. An optional as_of
// query parameter (RFC 3339) moves the maturation cutoff.
func (h *LedgerHandler) Balance(c *gin.Context) {
	customerID := c.Param("id")
	if customerID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	asOf := h.now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		asOf = parsed
	}

	summary, err := h.facade.Balance(c.Request.Context(), customerID, asOf)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Eligible:       summary.Eligible.String(),
		Pending:        summary.Pending.String(),
		LifetimeEarned: summary.LifetimeEarned.String(),
		Redeemed:       summary.Redeemed.String(),
	})
}

// Entries handles GET /api/customers/:id/ledger.
func (h *LedgerHandler) Entries(c *gin.Context) {
	customerID := c.Param("id")
	if customerID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	entries, err := h.facade.LedgerEntries(c.Request.Context(), customerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.LedgerEntryResponse{
			Month:    entry.Month.String(),
			Revenue:  entry.Revenue.String(),
			Earned:   entry.Earned.String(),
			Redeemed: entry.Redeemed.String(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Redemptions handles GET /api/customers/:id/redemptions.
func (h *LedgerHandler) Redemptions(c *gin.Context) {
	customerID := c.Param("id")
	if customerID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	redemptions, err := h.facade.Redemptions(c.Request.Context(), customerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(redemptions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.RedemptionResponse, 0, len(redemptions))
	for _, r := range redemptions {
		resp = append(resp, dto.RedemptionResponse{
			Amount:      r.Amount.String(),
			OrderNumber: r.OrderNumber,
			ProcessedAt: r.ProcessedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// HealthHandler serves GET /api/health.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check reports storage connectivity.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.checker.HealthCheck(c.Request.Context()); err != nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}
