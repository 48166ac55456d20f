package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/merchware/creditledger/internal/pkg/signature"
	"github.com/merchware/creditledger/internal/server/http/handlers"
	"github.com/merchware/creditledger/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CreditFacade, verifier *signature.Verifier, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	webhookHandler := handlers.NewWebhookHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	ledgerHandler := handlers.NewLedgerHandler(facade)
	healthHandler := handlers.NewHealthHandler(health)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	webhooks := api.Group("/webhooks")
	webhooks.Use(middleware.VerifySignature(verifier))
	webhooks.POST("/orders", webhookHandler.OrderPaid)

	checkout := api.Group("/checkout")
	checkout.POST("/quote", checkoutHandler.Quote)
	checkout.POST("/redeem", checkoutHandler.Redeem)

	customers := api.Group("/customers")
	customers.GET("/:id/balance", ledgerHandler.Balance)
	customers.GET("/:id/ledger", ledgerHandler.Entries)
	customers.GET("/:id/redemptions", ledgerHandler.Redemptions)

	return engine
}
