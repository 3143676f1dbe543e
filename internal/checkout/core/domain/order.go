package domain

type ProductType string

const (
	ProductDigital  ProductType = "DIGITAL"
	ProductPhysical ProductType = "PHYSICAL"
)

// FlowMode selects which sequence of checkout steps the host renders.
type FlowMode string

const (
	FlowThree        FlowMode = "three"
	FlowSingle       FlowMode = "single"
	FlowAutomaticAPI FlowMode = "automatic-api"
)

func (m FlowMode) Valid() bool {
	switch m {
	case FlowThree, FlowSingle, FlowAutomaticAPI:
		return true
	}
	return false
}

type Customer struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Cellphone string `json:"cellphone"`
	CPF       string `json:"cpf"`
}

type Address struct {
	CEP          string `json:"cep"`
	Address      string `json:"address"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Complement   string `json:"complement"`
}

// Payment is the handle of a payment intent created by the gateway.
type Payment struct {
	ID        string `json:"id"`
	PixQrcode string `json:"pixQrcode"`
	PixCode   string `json:"pixCode"`
}

type OrderBump struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price float64         `json:"price"`
	Flags map[string]bool `json:"flags,omitempty"`
}

type ShippingOption struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Cart is the purchasable item of an order.
//
// Total is stored, not computed: it is set to Price*Quantity on initialization
// and on SetCart only. Shipping is never folded into Total.
type Cart struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	PriceFake      float64         `json:"priceFake"`
	Quantity       int             `json:"quantity"`
	Total          float64         `json:"total"`
	Type           ProductType     `json:"type"`
	OrderBumps     []OrderBump     `json:"orderBumps"`
	ShippingOption *ShippingOption `json:"shippingOption"`
}

// Subtotal is Price*Quantity regardless of what Total currently holds.
func (c Cart) Subtotal() float64 {
	return c.Price * float64(c.Quantity)
}

// Order is the aggregate root of checkout state. Sub-objects are pointers so
// transitions can share the branches they do not touch.
type Order struct {
	Step     int       `json:"step"`
	Customer *Customer `json:"customer"`
	Address  *Address  `json:"address"`
	Payment  *Payment  `json:"payment"`
	Cart     *Cart     `json:"cart"`
}

// InitParams are supplied by the host when a checkout session starts.
// Every field is optional.
type InitParams struct {
	ProductID          string      `json:"productId"`
	ProductName        string      `json:"productName"`
	ProductDescription string      `json:"productDescription"`
	ProductPrice       float64     `json:"productPrice"`
	ProductPriceFake   float64     `json:"productPriceFake"`
	ProductImage       string      `json:"productImage"`
	ProductType        ProductType `json:"productType"`
	ProductURLRedirect string      `json:"productUrlRedirect"`
	Quantity           int         `json:"quantity"`
}

// State is the snapshot exposed to consumers.
type State struct {
	ProductOrder *Order   `json:"productOrder"`
	Steps        FlowMode `json:"steps"`
}

// NewOrder builds the initial order from params, applying defaults for
// absent fields.
func NewOrder(p InitParams) *Order {
	quantity := p.Quantity
	if quantity == 0 {
		quantity = 1
	}
	productType := p.ProductType
	if productType == "" {
		productType = ProductPhysical
	}

	return &Order{
		Step:     1,
		Customer: &Customer{},
		Address:  &Address{},
		Payment:  &Payment{},
		Cart: &Cart{
			ID:             p.ProductID,
			Name:           p.ProductName,
			Image:          p.ProductImage,
			Description:    p.ProductDescription,
			Price:          p.ProductPrice,
			PriceFake:      p.ProductPriceFake,
			Quantity:       quantity,
			Total:          p.ProductPrice * float64(quantity),
			Type:           productType,
			OrderBumps:     []OrderBump{},
			ShippingOption: &ShippingOption{},
		},
	}
}

// NewState returns the initial state for params.
func NewState(p InitParams) State {
	return State{ProductOrder: NewOrder(p), Steps: FlowThree}
}
