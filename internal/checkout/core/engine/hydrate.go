package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
)

// Hydrate overlays the sub-objects found in store onto s.
//
//   - customer, address and payment replace the initial blanks.
//   - cart is restored only when it belongs to the same product as s.
//   - shippingOption and orderBump are applied on top of the cart, since
//     they are written after the cart key by their own mutations. A stored
//     order bump already present in the cart (same ID) is not appended twice.
//     Only the most recent bump is stored, so of the bumps added since the
//     cart was last written only the latest survives a reload.
//
// Step and flow mode are never persisted and keep their initial values.
// Undecodable values are logged and skipped; read errors are returned.
func Hydrate(ctx context.Context, store ports.SessionStorage, s domain.State) (domain.State, error) {
	order := *s.ProductOrder

	var customer domain.Customer
	if ok, err := load(ctx, store, KeyCustomer, &customer); err != nil {
		return s, err
	} else if ok {
		order.Customer = &customer
	}

	var address domain.Address
	if ok, err := load(ctx, store, KeyAddress, &address); err != nil {
		return s, err
	} else if ok {
		order.Address = &address
	}

	var payment domain.Payment
	if ok, err := load(ctx, store, KeyPayment, &payment); err != nil {
		return s, err
	} else if ok {
		order.Payment = &payment
	}

	cart := *order.Cart
	var stored domain.Cart
	if ok, err := load(ctx, store, KeyCart, &stored); err != nil {
		return s, err
	} else if ok && stored.ID == cart.ID {
		cart = stored
		if cart.OrderBumps == nil {
			cart.OrderBumps = []domain.OrderBump{}
		}
	}

	var opt domain.ShippingOption
	if ok, err := load(ctx, store, KeyShippingOption, &opt); err != nil {
		return s, err
	} else if ok {
		cart.ShippingOption = &opt
	}

	var bump domain.OrderBump
	if ok, err := load(ctx, store, KeyOrderBump, &bump); err != nil {
		return s, err
	} else if ok && !hasBump(cart.OrderBumps, bump.ID) {
		bumps := make([]domain.OrderBump, len(cart.OrderBumps), len(cart.OrderBumps)+1)
		copy(bumps, cart.OrderBumps)
		cart.OrderBumps = append(bumps, bump)
	}

	order.Cart = &cart
	return domain.State{ProductOrder: &order, Steps: s.Steps}, nil
}

func load(ctx context.Context, store ports.SessionStorage, key string, dst any) (bool, error) {
	raw, ok, err := store.GetItem(ctx, key)
	if err != nil {
		return false, fmt.Errorf("engine: hydrate %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.WarnContext(ctx, "skipping undecodable session value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func hasBump(bumps []domain.OrderBump, id string) bool {
	for _, b := range bumps {
		if b.ID == id {
			return true
		}
	}
	return false
}
