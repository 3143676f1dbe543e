package domain

// AutomaticAPICustomer is the seed customer for the automatic-api flow.
// It is deliberately blank; the flow must populate it from the integration
// that started the checkout.
func AutomaticAPICustomer() Customer {
	return Customer{}
}
