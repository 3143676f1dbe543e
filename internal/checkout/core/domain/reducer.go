package domain

// Reduce applies a to s and returns the next state. It never mutates s:
// new values are allocated only along the path the action touches and every
// other branch is shared with s.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetFlowMode:
		// The order reference is renewed even though its content is unchanged;
		// consumers memoizing on it re-render on a flow change.
		order := *s.ProductOrder
		return State{ProductOrder: &order, Steps: act.Mode}

	case SetCustomer:
		customer := act.Customer
		return s.withOrder(func(o *Order) { o.Customer = &customer })

	case SetAddress:
		address := act.Address
		return s.withOrder(func(o *Order) { o.Address = &address })

	case SetPayment:
		payment := act.Payment
		return s.withOrder(func(o *Order) { o.Payment = &payment })

	case SetCart:
		cart := act.Cart
		cart.OrderBumps = cloneBumps(cart.OrderBumps)
		if cart.ShippingOption != nil {
			opt := *cart.ShippingOption
			cart.ShippingOption = &opt
		}
		cart.Total = cart.Subtotal()
		return s.withOrder(func(o *Order) { o.Cart = &cart })

	case SetCartQuantity:
		return s.withCart(func(c *Cart) { c.Quantity = act.Quantity })

	case AddOrderBump:
		return s.withCart(func(c *Cart) {
			bumps := make([]OrderBump, len(c.OrderBumps), len(c.OrderBumps)+1)
			copy(bumps, c.OrderBumps)
			c.OrderBumps = append(bumps, act.Bump)
		})

	case SetShippingOption:
		opt := act.Option
		return s.withCart(func(c *Cart) { c.ShippingOption = &opt })

	case NextStep:
		return s.withOrder(func(o *Order) { o.Step++ })

	case PrevStep:
		return s.withOrder(func(o *Order) { o.Step-- })
	}

	return s
}

func (s State) withOrder(fn func(o *Order)) State {
	order := *s.ProductOrder
	fn(&order)
	return State{ProductOrder: &order, Steps: s.Steps}
}

func (s State) withCart(fn func(c *Cart)) State {
	return s.withOrder(func(o *Order) {
		cart := *o.Cart
		fn(&cart)
		o.Cart = &cart
	})
}

func cloneBumps(in []OrderBump) []OrderBump {
	out := make([]OrderBump, len(in))
	copy(out, in)
	return out
}
