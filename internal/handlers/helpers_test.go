package handlers

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v81"

	appMiddleware "cardpay_api/internal/middleware"
	"cardpay_api/internal/models"
)

// fakeGateway counts calls and delegates to per-test hooks. Methods without a
// hook return zero values.
type fakeGateway struct {
	calls int

	createCustomerFn     func(email, name string, metadata map[string]string) (*stripe.Customer, error)
	createEphemeralKeyFn func(customerID string) (*stripe.EphemeralKey, error)
	createIntentFn       func(amount int64, customerID string) (*stripe.PaymentIntent, error)
	createCardIntentFn   func(amount int64, customerID, paymentMethodID string) (*stripe.PaymentIntent, error)
	createMethodFn       func(token string) (*stripe.PaymentMethod, error)
	confirmSetupFn       func(customerID, paymentMethodID string) (*stripe.SetupIntent, error)
	listCardsFn          func(customerID string) ([]models.SavedCard, error)
	attachFn             func(customerID, paymentMethodID string) (*stripe.PaymentMethod, error)
	detachFn             func(paymentMethodID string) error
	setDefaultFn         func(customerID, paymentMethodID string) error
	verifyFn             func(payload []byte, signature string) (stripe.Event, error)
}

func (g *fakeGateway) CreateCustomer(_ context.Context, email, name string, metadata map[string]string) (*stripe.Customer, error) {
	g.calls++
	if g.createCustomerFn != nil {
		return g.createCustomerFn(email, name, metadata)
	}
	return &stripe.Customer{}, nil
}

func (g *fakeGateway) CreateEphemeralKey(_ context.Context, customerID string) (*stripe.EphemeralKey, error) {
	g.calls++
	if g.createEphemeralKeyFn != nil {
		return g.createEphemeralKeyFn(customerID)
	}
	return &stripe.EphemeralKey{}, nil
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, customerID string) (*stripe.PaymentIntent, error) {
	g.calls++
	if g.createIntentFn != nil {
		return g.createIntentFn(amount, customerID)
	}
	return &stripe.PaymentIntent{}, nil
}

func (g *fakeGateway) CreateCardPaymentIntent(_ context.Context, amount int64, customerID, paymentMethodID string) (*stripe.PaymentIntent, error) {
	g.calls++
	if g.createCardIntentFn != nil {
		return g.createCardIntentFn(amount, customerID, paymentMethodID)
	}
	return &stripe.PaymentIntent{}, nil
}

func (g *fakeGateway) CreatePaymentMethodFromToken(_ context.Context, token string) (*stripe.PaymentMethod, error) {
	g.calls++
	if g.createMethodFn != nil {
		return g.createMethodFn(token)
	}
	return &stripe.PaymentMethod{}, nil
}

func (g *fakeGateway) ConfirmSetupIntent(_ context.Context, customerID, paymentMethodID string) (*stripe.SetupIntent, error) {
	g.calls++
	if g.confirmSetupFn != nil {
		return g.confirmSetupFn(customerID, paymentMethodID)
	}
	return &stripe.SetupIntent{}, nil
}

func (g *fakeGateway) ListCards(_ context.Context, customerID string) ([]models.SavedCard, error) {
	g.calls++
	if g.listCardsFn != nil {
		return g.listCardsFn(customerID)
	}
	return []models.SavedCard{}, nil
}

func (g *fakeGateway) AttachPaymentMethod(_ context.Context, customerID, paymentMethodID string) (*stripe.PaymentMethod, error) {
	g.calls++
	if g.attachFn != nil {
		return g.attachFn(customerID, paymentMethodID)
	}
	return &stripe.PaymentMethod{}, nil
}

func (g *fakeGateway) DetachPaymentMethod(_ context.Context, paymentMethodID string) error {
	g.calls++
	if g.detachFn != nil {
		return g.detachFn(paymentMethodID)
	}
	return nil
}

func (g *fakeGateway) SetDefaultPaymentMethod(_ context.Context, customerID, paymentMethodID string) error {
	g.calls++
	if g.setDefaultFn != nil {
		return g.setDefaultFn(customerID, paymentMethodID)
	}
	return nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	if g.verifyFn != nil {
		return g.verifyFn(payload, signature)
	}
	return stripe.Event{}, nil
}

// fakeStore remembers customer mappings and emulates field-level order merges
type fakeStore struct {
	customers map[string]string
	orders    map[string]map[string]interface{}
	merges    int
	mergeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[string]string{},
		orders:    map[string]map[string]interface{}{},
	}
}

func (s *fakeStore) StripeCustomerID(_ context.Context, firebaseUID string) (string, error) {
	return s.customers[firebaseUID], nil
}

func (s *fakeStore) SetStripeCustomerID(_ context.Context, firebaseUID, customerID string) error {
	s.customers[firebaseUID] = customerID
	return nil
}

func (s *fakeStore) MergeOrder(_ context.Context, userID, orderID string, upd models.OrderUpdate) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	s.merges++

	key := userID + "/" + orderID
	doc := s.orders[key]
	if doc == nil {
		doc = map[string]interface{}{}
	}
	doc["status"] = string(upd.Status)
	doc["amount"] = upd.Amount
	doc["currency"] = upd.Currency
	doc["created"] = upd.Created
	doc["paymentIntentId"] = upd.PaymentIntentID
	if upd.PaymentMethodID != "" {
		doc["paymentMethod"] = upd.PaymentMethodID
	}
	if upd.LastError != "" {
		doc["lastError"] = upd.LastError
	}
	s.orders[key] = doc
	return nil
}

// newTestEcho builds an Echo instance with the production error handler so
// responses carry the real status codes and JSON error shape
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = appMiddleware.JSONErrorHandler
	return e
}

func doJSONRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
