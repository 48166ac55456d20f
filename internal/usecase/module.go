package usecase

import (
	"go.uber.org/fx"

	"github.com/merchware/creditledger/internal/config"
	"github.com/merchware/creditledger/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	func(store repository.LedgerRepository, cfg *config.Config) *LedgerUseCase {
		return NewLedgerUseCase(store, cfg.Tiers)
	},
	func(store repository.LedgerRepository, history repository.RedemptionRepository, cfg *config.Config) *RedemptionUseCase {
		return NewRedemptionUseCase(store, history, cfg.CapRate)
	},
	NewOrderEventUseCase,
)
