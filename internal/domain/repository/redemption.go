package repository

import (
	"context"

	"github.com/merchware/creditledger/internal/domain/model"
)

// RedemptionRepository provides access to committed redemptions.
type RedemptionRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]model.Redemption, error)
}
