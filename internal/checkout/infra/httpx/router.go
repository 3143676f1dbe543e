package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/checkout-engine/internal/checkout/infra/httpx/middlewares"
	"github.com/jcmexdev/checkout-engine/internal/pkg/metrics"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/checkouts", func(r chi.Router) {
		r.Post("/", handler.CreateCheckout)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetCheckout)
			r.Delete("/", handler.DeleteCheckout)

			r.Put("/flow-mode", handler.SetFlowMode)
			r.Put("/customer", handler.SetCustomer)
			r.Put("/address", handler.SetAddress)
			r.Put("/payment", handler.SetPayment)
			r.Post("/payment-intent", handler.CreatePaymentIntent)
			r.Put("/cart", handler.SetCart)
			r.Put("/cart/quantity", handler.SetCartQuantity)
			r.Post("/order-bumps", handler.AddOrderBump)
			r.Put("/shipping-option", handler.SetShippingOption)
			r.Post("/steps/next", handler.NextStep)
			r.Post("/steps/prev", handler.PrevStep)

			r.Get("/journal", handler.GetJournal)
		})
	})

	// Server spans wrap the whole router so middleware sees the span context.
	return otelhttp.NewHandler(r, "checkout-http")
}
