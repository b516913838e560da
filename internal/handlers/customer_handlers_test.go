package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v81"
)

func newCustomerServer(gateway *fakeGateway, store *fakeStore) *echo.Echo {
	e := newTestEcho()
	h := NewCustomerHandler(gateway, store, nil)
	e.POST("/api/create-customer", h.CreateCustomer)
	e.POST("/api/get-or-create-customer", h.GetOrCreateCustomer)
	e.POST("/api/create-ephemeral-key", h.CreateEphemeralKey)
	return e
}

func TestCreateCustomerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"email": "a@b.com"}`},
		{name: "missing email", body: `{"name": "Ada"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{}
			e := newCustomerServer(gateway, newFakeStore())

			rec := doJSONRequest(e, http.MethodPost, "/api/create-customer", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
			}
			if gateway.calls != 0 {
				t.Errorf("gateway calls = %d; want 0", gateway.calls)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body = %s; want an error field", rec.Body.String())
			}
		})
	}
}

func TestCreateCustomerMethodNotAllowed(t *testing.T) {
	gateway := &fakeGateway{}
	e := newCustomerServer(gateway, newFakeStore())

	rec := doJSONRequest(e, http.MethodGet, "/api/create-customer", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if gateway.calls != 0 {
		t.Errorf("gateway calls = %d; want 0", gateway.calls)
	}
}

func TestCreateCustomerSuccess(t *testing.T) {
	gateway := &fakeGateway{
		createCustomerFn: func(email, name string, metadata map[string]string) (*stripe.Customer, error) {
			if email != "a@b.com" || name != "Ada" {
				t.Errorf("gateway got email=%q name=%q", email, name)
			}
			return &stripe.Customer{ID: "cus_123"}, nil
		},
	}
	e := newCustomerServer(gateway, newFakeStore())

	rec := doJSONRequest(e, http.MethodPost, "/api/create-customer", `{"email": "a@b.com", "name": "Ada"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"customerId":"cus_123"`) {
		t.Errorf("body = %s; want customerId", rec.Body.String())
	}
}

func TestGetOrCreateCustomerExistingMapping(t *testing.T) {
	gateway := &fakeGateway{}
	store := newFakeStore()
	store.customers["u1"] = "cus_existing"
	e := newCustomerServer(gateway, store)

	rec := doJSONRequest(e, http.MethodPost, "/api/get-or-create-customer",
		`{"firebaseUID": "u1", "email": "a@b.com", "name": "Ada"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"customerId":"cus_existing"`) {
		t.Errorf("body = %s; want existing customerId", rec.Body.String())
	}
	if gateway.calls != 0 {
		t.Errorf("gateway calls = %d; want 0 when mapping exists", gateway.calls)
	}
}

func TestGetOrCreateCustomerCreatesAndPersists(t *testing.T) {
	gateway := &fakeGateway{
		createCustomerFn: func(email, name string, metadata map[string]string) (*stripe.Customer, error) {
			if metadata["firebaseUID"] != "u1" {
				t.Errorf("metadata firebaseUID = %q; want u1", metadata["firebaseUID"])
			}
			return &stripe.Customer{ID: "cus_new"}, nil
		},
	}
	store := newFakeStore()
	e := newCustomerServer(gateway, store)

	rec := doJSONRequest(e, http.MethodPost, "/api/get-or-create-customer",
		`{"firebaseUID": "u1", "email": "a@b.com", "name": "Ada"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if store.customers["u1"] != "cus_new" {
		t.Errorf("stored mapping = %q; want cus_new", store.customers["u1"])
	}
}

func TestCreateEphemeralKeyValidation(t *testing.T) {
	gateway := &fakeGateway{}
	e := newCustomerServer(gateway, newFakeStore())

	rec := doJSONRequest(e, http.MethodPost, "/api/create-ephemeral-key", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
	if gateway.calls != 0 {
		t.Errorf("gateway calls = %d; want 0", gateway.calls)
	}
}

func TestCreateEphemeralKeySuccess(t *testing.T) {
	gateway := &fakeGateway{
		createEphemeralKeyFn: func(customerID string) (*stripe.EphemeralKey, error) {
			return &stripe.EphemeralKey{Secret: "ek_secret"}, nil
		},
	}
	e := newCustomerServer(gateway, newFakeStore())

	rec := doJSONRequest(e, http.MethodPost, "/api/create-ephemeral-key", `{"customer_id": "cus_123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ephemeralKeySecret":"ek_secret"`) {
		t.Errorf("body = %s; want ephemeralKeySecret", rec.Body.String())
	}
}
