package httpx

import (
	"time"

	"github.com/jcmexdev/checkout-engine/internal/checkout/app"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/journal"
)

// CreateCheckoutRequest starts a session, or resumes one when SessionID is set.
type CreateCheckoutRequest struct {
	SessionID          string  `json:"sessionId" validate:"omitempty,uuid"`
	ProductID          string  `json:"productId"`
	ProductName        string  `json:"productName"`
	ProductDescription string  `json:"productDescription"`
	ProductPrice       float64 `json:"productPrice" validate:"gte=0"`
	ProductPriceFake   float64 `json:"productPriceFake" validate:"gte=0"`
	ProductImage       string  `json:"productImage"`
	ProductType        string  `json:"productType" validate:"omitempty,oneof=DIGITAL PHYSICAL"`
	ProductURLRedirect string  `json:"productUrlRedirect" validate:"omitempty,url"`
	Quantity           int     `json:"quantity" validate:"gte=0"`
}

func (r CreateCheckoutRequest) params() domain.InitParams {
	return domain.InitParams{
		ProductID:          r.ProductID,
		ProductName:        r.ProductName,
		ProductDescription: r.ProductDescription,
		ProductPrice:       r.ProductPrice,
		ProductPriceFake:   r.ProductPriceFake,
		ProductImage:       r.ProductImage,
		ProductType:        domain.ProductType(r.ProductType),
		ProductURLRedirect: r.ProductURLRedirect,
		Quantity:           r.Quantity,
	}
}

type FlowModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=three single automatic-api"`
}

type CustomerRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Cellphone string `json:"cellphone" validate:"required,numeric,min=10,max=11"`
	CPF       string `json:"cpf" validate:"required,cpf"`
}

func (r CustomerRequest) toDomain() domain.Customer {
	return domain.Customer{Name: r.Name, Email: r.Email, Cellphone: r.Cellphone, CPF: r.CPF}
}

type AddressRequest struct {
	CEP          string `json:"cep" validate:"required,cep"`
	Address      string `json:"address" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,len=2,alpha"`
	Complement   string `json:"complement"`
}

func (r AddressRequest) toDomain() domain.Address {
	return domain.Address{
		CEP:          r.CEP,
		Address:      r.Address,
		Number:       r.Number,
		Neighborhood: r.Neighborhood,
		City:         r.City,
		State:        r.State,
		Complement:   r.Complement,
	}
}

type PaymentRequest struct {
	ID        string `json:"id" validate:"required"`
	PixQrcode string `json:"pixQrcode"`
	PixCode   string `json:"pixCode"`
}

func (r PaymentRequest) toDomain() domain.Payment {
	return domain.Payment{ID: r.ID, PixQrcode: r.PixQrcode, PixCode: r.PixCode}
}

// CartRequest replaces the cart wholesale. Total is always recomputed, so it
// is not accepted from the client.
type CartRequest struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Image          string                 `json:"image"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price" validate:"gte=0"`
	PriceFake      float64                `json:"priceFake" validate:"gte=0"`
	Quantity       int                    `json:"quantity" validate:"min=1"`
	Type           string                 `json:"type" validate:"omitempty,oneof=DIGITAL PHYSICAL"`
	OrderBumps     []OrderBumpRequest     `json:"orderBumps" validate:"dive"`
	ShippingOption *ShippingOptionRequest `json:"shippingOption"`
}

func (r CartRequest) toDomain() domain.Cart {
	cart := domain.Cart{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		Description: r.Description,
		Price:       r.Price,
		PriceFake:   r.PriceFake,
		Quantity:    r.Quantity,
		Type:        domain.ProductType(r.Type),
		OrderBumps:  make([]domain.OrderBump, 0, len(r.OrderBumps)),
	}
	if cart.Type == "" {
		cart.Type = domain.ProductPhysical
	}
	for _, b := range r.OrderBumps {
		cart.OrderBumps = append(cart.OrderBumps, b.toDomain())
	}
	if r.ShippingOption != nil {
		opt := r.ShippingOption.toDomain()
		cart.ShippingOption = &opt
	} else {
		cart.ShippingOption = &domain.ShippingOption{}
	}
	return cart
}

type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type OrderBumpRequest struct {
	ID    string          `json:"id" validate:"required"`
	Name  string          `json:"name"`
	Price float64         `json:"price" validate:"gte=0"`
	Flags map[string]bool `json:"flags"`
}

func (r OrderBumpRequest) toDomain() domain.OrderBump {
	return domain.OrderBump{ID: r.ID, Name: r.Name, Price: r.Price, Flags: r.Flags}
}

type ShippingOptionRequest struct {
	ID    string  `json:"id" validate:"required"`
	Name  string  `json:"name"`
	Price float64 `json:"price" validate:"gte=0"`
}

func (r ShippingOptionRequest) toDomain() domain.ShippingOption {
	return domain.ShippingOption{ID: r.ID, Name: r.Name, Price: r.Price}
}

type CheckoutResponse struct {
	SessionID    string          `json:"sessionId"`
	ProductOrder *domain.Order   `json:"productOrder"`
	Steps        domain.FlowMode `json:"steps"`
	StepName     string          `json:"stepName"`
	Completed    bool            `json:"completed"`
	URLRedirect  string          `json:"urlRedirect,omitempty"`
}

func mapViewToResponse(v app.View) CheckoutResponse {
	return CheckoutResponse{
		SessionID:    v.SessionID,
		ProductOrder: v.State.ProductOrder,
		Steps:        v.State.Steps,
		StepName:     v.StepName,
		Completed:    v.Completed,
		URLRedirect:  v.URLRedirect,
	}
}

type JournalEntryResponse struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"`
	Step      int    `json:"step"`
	FlowMode  string `json:"flowMode"`
	Payload   string `json:"payload,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	SpanID    string `json:"spanId,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

func mapJournalEntry(e *journal.Entry) JournalEntryResponse {
	return JournalEntryResponse{
		SessionID: e.SessionID,
		Action:    e.Action,
		Step:      e.Step,
		FlowMode:  e.FlowMode,
		Payload:   e.Payload,
		TraceID:   e.TraceID,
		SpanID:    e.SpanID,
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339Nano),
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
