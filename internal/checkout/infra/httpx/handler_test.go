package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/checkout-engine/internal/checkout/app"
	"github.com/jcmexdev/checkout-engine/internal/checkout/core/ports"
	"github.com/jcmexdev/checkout-engine/internal/checkout/infra/adapters/payment"
	"github.com/jcmexdev/checkout-engine/internal/checkout/infra/httpx/middlewares"
	"github.com/jcmexdev/checkout-engine/internal/checkout/journal/sqlite"
	"github.com/jcmexdev/checkout-engine/internal/pkg/cache"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	c := cache.NewMemoryCache("checkout")
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	svc := app.NewService(func(id string) ports.SessionStorage {
		return cache.NewSessionStorage(c, id, 0)
	}, payment.NewFakeGateway(), repo)
	return NewRouter(NewHandler(svc))
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeCheckout(t *testing.T, rec *httptest.ResponseRecorder) CheckoutResponse {
	t.Helper()
	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func createCheckout(t *testing.T, h http.Handler) CheckoutResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/checkouts", map[string]any{
		"productId":    "p1",
		"productPrice": 100,
		"quantity":     2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeCheckout(t, rec)
}

func TestCreateCheckout(t *testing.T) {
	h := newTestRouter(t)

	resp := createCheckout(t, h)

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "three", string(resp.Steps))
	assert.Equal(t, "identification", resp.StepName)
	assert.Equal(t, 1, resp.ProductOrder.Step)
	assert.Equal(t, 200.0, resp.ProductOrder.Cart.Total)
	assert.Equal(t, "PHYSICAL", string(resp.ProductOrder.Cart.Type))
}

func TestCreateCheckout_IdempotencyKeyResumesSession(t *testing.T) {
	h := newTestRouter(t)
	body := map[string]any{"productId": "p1", "productPrice": 10}

	first := do(t, h, http.MethodPost, "/checkouts", body, middlewares.HeaderXIdempotencyKey, "order-42")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	id := decodeCheckout(t, first).SessionID

	rec := do(t, h, http.MethodPost, "/checkouts/"+id+"/steps/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	second := do(t, h, http.MethodPost, "/checkouts", body, middlewares.HeaderXIdempotencyKey, "order-42")
	require.Equal(t, http.StatusOK, second.Code)
	resp := decodeCheckout(t, second)
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, 2, resp.ProductOrder.Step)
}

func TestCreateCheckout_RejectsBadInput(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/checkouts", map[string]any{"productType": "SERVICE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_request")

	req := httptest.NewRequest(http.MethodPost, "/checkouts", bytes.NewBufferString("{"))
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
	assert.Contains(t, out.Body.String(), "invalid_json")
}

func TestCheckoutFlow(t *testing.T) {
	h := newTestRouter(t)
	id := createCheckout(t, h).SessionID
	base := "/checkouts/" + id

	rec := do(t, h, http.MethodPut, base+"/customer", map[string]any{
		"name":      "Ana Souza",
		"email":     "ana@example.com",
		"cellphone": "11999998888",
		"cpf":       "529.982.247-25",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ana Souza", decodeCheckout(t, rec).ProductOrder.Customer.Name)

	rec = do(t, h, http.MethodPost, base+"/steps/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "delivery", decodeCheckout(t, rec).StepName)

	rec = do(t, h, http.MethodPut, base+"/address", map[string]any{
		"cep":          "01001-000",
		"address":      "Praça da Sé",
		"number":       "1",
		"neighborhood": "Sé",
		"city":         "São Paulo",
		"state":        "SP",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPut, base+"/shipping-option", map[string]any{"id": "pac", "name": "PAC", "price": 12.5})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCheckout(t, rec)
	assert.Equal(t, 12.5, resp.ProductOrder.Cart.ShippingOption.Price)
	assert.Equal(t, 200.0, resp.ProductOrder.Cart.Total, "shipping is not folded into total")

	rec = do(t, h, http.MethodPost, base+"/order-bumps", map[string]any{"id": "b1", "name": "Warranty", "price": 15})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, base+"/order-bumps", map[string]any{"id": "b2", "name": "Gift wrap", "price": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	bumps := decodeCheckout(t, rec).ProductOrder.Cart.OrderBumps
	require.Len(t, bumps, 2)
	assert.Equal(t, "b1", bumps[0].ID)
	assert.Equal(t, "b2", bumps[1].ID)

	rec = do(t, h, http.MethodPost, base+"/steps/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, base+"/payment-intent", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decodeCheckout(t, rec)
	assert.Equal(t, "payment", resp.StepName)
	assert.NotEmpty(t, resp.ProductOrder.Payment.PixCode)

	rec = do(t, h, http.MethodGet, base+"/journal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entry JournalEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "set_payment", entry.Action)
	assert.Equal(t, 3, entry.Step)
}

func TestSetCustomer_Validation(t *testing.T) {
	h := newTestRouter(t)
	base := "/checkouts/" + createCheckout(t, h).SessionID

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad cpf", map[string]any{"name": "Ana", "email": "ana@example.com", "cellphone": "11999998888", "cpf": "111.111.111-11"}},
		{"bad email", map[string]any{"name": "Ana", "email": "ana", "cellphone": "11999998888", "cpf": "52998224725"}},
		{"missing name", map[string]any{"email": "ana@example.com", "cellphone": "11999998888", "cpf": "52998224725"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, base+"/customer", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid_request")
		})
	}
}

func TestSetAddress_RejectsBadCEP(t *testing.T) {
	h := newTestRouter(t)
	base := "/checkouts/" + createCheckout(t, h).SessionID

	rec := do(t, h, http.MethodPut, base+"/address", map[string]any{
		"cep": "0100", "address": "Rua A", "number": "1", "neighborhood": "Centro", "city": "Recife", "state": "PE",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CEP: cep")
}

func TestCartEndpoints(t *testing.T) {
	h := newTestRouter(t)
	base := "/checkouts/" + createCheckout(t, h).SessionID

	rec := do(t, h, http.MethodPut, base+"/cart", map[string]any{"id": "p1", "price": 3, "quantity": 4, "total": 999})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 12.0, decodeCheckout(t, rec).ProductOrder.Cart.Total)

	rec = do(t, h, http.MethodPut, base+"/cart/quantity", map[string]any{"quantity": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCheckout(t, rec).ProductOrder.Cart
	assert.Equal(t, 10, cart.Quantity)
	assert.Equal(t, 12.0, cart.Total)

	rec = do(t, h, http.MethodPut, base+"/cart/quantity", map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlowModeAndPrevStep(t *testing.T) {
	h := newTestRouter(t)
	base := "/checkouts/" + createCheckout(t, h).SessionID

	rec := do(t, h, http.MethodPut, base+"/flow-mode", map[string]any{"mode": "single"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCheckout(t, rec)
	assert.Equal(t, "single", string(resp.Steps))
	assert.Equal(t, "checkout", resp.StepName)

	rec = do(t, h, http.MethodPut, base+"/flow-mode", map[string]any{"mode": "four"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/steps/prev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeCheckout(t, rec)
	assert.Equal(t, 0, resp.ProductOrder.Step)
	assert.Equal(t, "", resp.StepName)
}

func TestUnknownSessionAndDelete(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/checkouts/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_not_found")

	id := createCheckout(t, h).SessionID
	rec = do(t, h, http.MethodDelete, "/checkouts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/checkouts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again, or deleting a session this process never loaded, is a no-op.
	rec = do(t, h, http.MethodDelete, "/checkouts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/checkouts/nope", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPaymentIntentWithNothingToPay(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/checkouts", map[string]any{"productId": "free"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeCheckout(t, rec).SessionID

	rec = do(t, h, http.MethodPost, "/checkouts/"+id+"/payment-intent", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	createCheckout(t, h)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "checkout_sessions_active")
}

func TestValidCPF(t *testing.T) {
	assert.True(t, validCPF("52998224725"))
	assert.True(t, validCPF("529.982.247-25"))
	assert.False(t, validCPF("52998224724"))
	assert.False(t, validCPF("00000000000"))
	assert.False(t, validCPF("5299822472"))
	assert.False(t, validCPF("529a98224725"))
}
