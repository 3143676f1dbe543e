package domain

// Action is a checkout mutation. The set of actions is closed; Reduce
// handles every implementation declared in this file.
type Action interface {
	Name() string
	isAction()
}

type SetFlowMode struct{ Mode FlowMode }

type SetCustomer struct{ Customer Customer }

type SetAddress struct{ Address Address }

type SetPayment struct{ Payment Payment }

// SetCart replaces the cart wholesale and recomputes its total.
type SetCart struct{ Cart Cart }

// SetCartQuantity changes the quantity only; the stored total is left as is.
type SetCartQuantity struct{ Quantity int }

type AddOrderBump struct{ Bump OrderBump }

type SetShippingOption struct{ Option ShippingOption }

type NextStep struct{}

type PrevStep struct{}

func (SetFlowMode) Name() string       { return "set_flow_mode" }
func (SetCustomer) Name() string       { return "set_customer" }
func (SetAddress) Name() string        { return "set_address" }
func (SetPayment) Name() string        { return "set_payment" }
func (SetCart) Name() string           { return "set_cart" }
func (SetCartQuantity) Name() string   { return "set_cart_quantity" }
func (AddOrderBump) Name() string      { return "add_order_bump" }
func (SetShippingOption) Name() string { return "set_shipping_option" }
func (NextStep) Name() string          { return "next_step" }
func (PrevStep) Name() string          { return "prev_step" }

func (SetFlowMode) isAction()       {}
func (SetCustomer) isAction()       {}
func (SetAddress) isAction()        {}
func (SetPayment) isAction()        {}
func (SetCart) isAction()           {}
func (SetCartQuantity) isAction()   {}
func (AddOrderBump) isAction()      {}
func (SetShippingOption) isAction() {}
func (NextStep) isAction()          {}
func (PrevStep) isAction()          {}
