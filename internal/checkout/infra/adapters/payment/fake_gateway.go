package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
)

var _ ports.PaymentGateway = (*fakeGateway)(nil)

// fakeGateway is an in-memory PaymentGateway for local development and
// tests. Do NOT use in production.
type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]float64
}

func NewFakeGateway() ports.PaymentGateway {
	return &fakeGateway{intents: make(map[string]float64)}
}

func (g *fakeGateway) CreatePixIntent(ctx context.Context, req ports.PixIntentRequest) (domain.Payment, error) {
	if req.Amount <= 0 {
		return domain.Payment{}, fmt.Errorf("fake gateway: amount must be positive, got %.2f", req.Amount)
	}

	id := uuid.NewString()
	code := fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s5204000053039865406%.2f5802BR6304", id, req.Amount)

	g.mu.Lock()
	g.intents[id] = req.Amount
	g.mu.Unlock()

	return domain.Payment{
		ID:        id,
		PixQrcode: base64.StdEncoding.EncodeToString([]byte(code)),
		PixCode:   code,
	}, nil
}
