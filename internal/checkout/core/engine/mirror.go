package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
	"github.com/jcmexdev/checkout-engine/internal/pkg/metrics"
)

// Session storage keys. Each sub-object lives under its own key so a reload
// can recover whatever was captured even if the order was never completed.
const (
	KeyCustomer       = "customer"
	KeyAddress        = "address"
	KeyPayment        = "payment"
	KeyCart           = "cart"
	KeyOrderBump      = "orderBump"
	KeyShippingOption = "shippingOption"
)

// ErrPersist wraps every session storage write failure.
var ErrPersist = errors.New("engine: persist")

// StorageMirror writes the sub-object an action changed as JSON. Flow mode
// and step changes are not mirrored.
type StorageMirror struct {
	Store ports.SessionStorage
}

func (m StorageMirror) Apply(ctx context.Context, tr Transition) error {
	key, value := Changed(tr)
	if key == "" {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrPersist, key, err)
	}
	if err := m.Store.SetItem(ctx, key, string(b)); err != nil {
		metrics.RecordStorageWrite(key, false)
		return fmt.Errorf("%w: write %q: %w", ErrPersist, key, err)
	}
	metrics.RecordStorageWrite(key, true)
	return nil
}

// Changed returns the session storage key and value an action wrote, or ""
// when the action is not mirrored.
func Changed(tr Transition) (string, any) {
	order := tr.Next.ProductOrder
	switch a := tr.Action.(type) {
	case domain.SetCustomer:
		return KeyCustomer, order.Customer
	case domain.SetAddress:
		return KeyAddress, order.Address
	case domain.SetPayment:
		return KeyPayment, order.Payment
	case domain.SetCart, domain.SetCartQuantity:
		return KeyCart, order.Cart
	case domain.AddOrderBump:
		// Only the appended item, not the list.
		return KeyOrderBump, a.Bump
	case domain.SetShippingOption:
		return KeyShippingOption, order.Cart.ShippingOption
	}
	return "", nil
}
