package ports

import (
	"context"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
)

type PixIntentRequest struct {
	SessionID string
	Amount    float64
	Customer  domain.Customer
}

// PaymentGateway creates payment intents. The returned Payment is stored on
// the order as-is.
type PaymentGateway interface {
	CreatePixIntent(ctx context.Context, req PixIntentRequest) (domain.Payment, error)
}
