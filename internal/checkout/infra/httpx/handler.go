package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jcmexdev/checkout-engine/internal/checkout/app"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/domain"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/engine"
	"github.com/jcmexdev/checkout-engine/internal/checkout/infra/httpx/middlewares"
	"github.com/jcmexdev/checkout-engine/internal/checkout/journal"
)

// idempotencyNamespace derives stable session ids from idempotency keys.
var idempotencyNamespace = uuid.MustParse("6f0c4a1e-2b0d-4f7c-9c35-8d1e0b6c2a51")

// Handler translates HTTP requests into checkout session operations.
type Handler struct {
	service  *app.Service
	validate *validator.Validate
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service, validate: newValidator()}
}

// CreateCheckout starts a session. A body carrying an existing sessionId, or
// a request with an idempotency key, resumes that session instead.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	id := req.SessionID
	if id == "" {
		if key := middlewares.IdempotencyKey(ctx); key != "" {
			id = uuid.NewSHA1(idempotencyNamespace, []byte(key)).String()
		}
	}

	status := http.StatusOK
	var (
		view app.View
		err  error
	)
	if id == "" {
		status = http.StatusCreated
		view, err = h.service.Create(ctx, req.params())
	} else {
		view, err = h.service.Resume(ctx, id, req.params())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	slog.InfoContext(ctx, "checkout session opened",
		"request_id", middlewares.RequestID(ctx),
		"session_id", view.SessionID,
		"product_id", req.ProductID,
	)
	writeJSON(w, status, mapViewToResponse(view))
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) DeleteCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetFlowMode(w http.ResponseWriter, r *http.Request) {
	var req FlowModeRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.service.SetFlowMode(r.Context(), chi.URLParam(r, "id"), domain.FlowMode(req.Mode))
	h.respond(w, r, view, err)
}

func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.SetCustomer{Customer: req.toDomain()})
}

func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.SetAddress{Address: req.toDomain()})
}

func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.SetPayment{Payment: req.toDomain()})
}

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.CreatePaymentIntent(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) SetCart(w http.ResponseWriter, r *http.Request) {
	var req CartRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.SetCart{Cart: req.toDomain()})
}

func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.SetCartQuantity{Quantity: req.Quantity})
}

func (h *Handler) AddOrderBump(w http.ResponseWriter, r *http.Request) {
	var req OrderBumpRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.AddOrderBump{Bump: req.toDomain()})
}

func (h *Handler) SetShippingOption(w http.ResponseWriter, r *http.Request) {
	var req ShippingOptionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.apply(w, r, domain.SetShippingOption{Option: req.toDomain()})
}

func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, domain.NextStep{})
}

func (h *Handler) PrevStep(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, domain.PrevStep{})
}

// GetJournal returns the last transition recorded for a session.
func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.LatestJournalEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapJournalEntry(entry))
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, a domain.Action) {
	view, err := h.service.Apply(r.Context(), chi.URLParam(r, "id"), a)
	h.respond(w, r, view, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, view app.View, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViewToResponse(view))
}

// decode reads and validates the JSON body into dst. It writes the 400
// response itself and reports false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", describe(err))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, "journal_not_found", err.Error())
	case errors.Is(err, app.ErrNothingToPay):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, app.ErrPaymentGateway):
		slog.ErrorContext(r.Context(), "payment gateway call failed", "error", err)
		writeError(w, http.StatusBadGateway, "payment_gateway_error", err.Error())
	case errors.Is(err, engine.ErrPersist):
		writeError(w, http.StatusBadGateway, "storage_error", err.Error())
	default:
		slog.ErrorContext(r.Context(), "checkout request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
