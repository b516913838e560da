package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"cardpay_api/internal/models"
)

// ephemeralKeyAPIVersion must match the mobile SDK the key is handed to
const ephemeralKeyAPIVersion = "2023-10-16"

// StripeService wraps the Stripe SDK client for the operations the handlers need
type StripeService struct {
	client        *client.API
	webhookSecret string
}

// NewStripeService creates a Stripe API client from the secret key and the
// webhook signing secret
func NewStripeService(secretKey, webhookSecret string) *StripeService {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeService{
		client:        sc,
		webhookSecret: webhookSecret,
	}
}

// CreateCustomer creates a Stripe customer, optionally carrying metadata such
// as the application user identifier
func (s *StripeService) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	customer, err := s.client.Customers.New(params)
	if err != nil {
		return nil, gatewayError("create customer", err)
	}
	return customer, nil
}

// CreateEphemeralKey creates a short-lived key a mobile client uses to read
// the customer's saved payment methods
func (s *StripeService) CreateEphemeralKey(ctx context.Context, customerID string) (*stripe.EphemeralKey, error) {
	params := &stripe.EphemeralKeyParams{
		Customer:      stripe.String(customerID),
		StripeVersion: stripe.String(ephemeralKeyAPIVersion),
	}
	params.Context = ctx

	key, err := s.client.EphemeralKeys.New(params)
	if err != nil {
		return nil, gatewayError("create ephemeral key", err)
	}
	return key, nil
}

// CreatePaymentIntent creates a USD payment intent with automatic payment
// methods enabled. Amount is in minor currency units.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount int64, customerID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, gatewayError("create payment intent", err)
	}
	return intent, nil
}

// CreateCardPaymentIntent creates an unconfirmed payment intent against a
// saved card, marking the card for off-session reuse
func (s *StripeService) CreateCardPaymentIntent(ctx context.Context, amount int64, customerID, paymentMethodID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:           stripe.Int64(amount),
		Currency:         stripe.String(string(stripe.CurrencyUSD)),
		Customer:         stripe.String(customerID),
		PaymentMethod:    stripe.String(paymentMethodID),
		Confirm:          stripe.Bool(false),
		SetupFutureUsage: stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, gatewayError("create card payment intent", err)
	}
	return intent, nil
}

// CreatePaymentMethodFromToken converts a card token into a payment method
func (s *StripeService) CreatePaymentMethodFromToken(ctx context.Context, token string) (*stripe.PaymentMethod, error) {
	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Token: stripe.String(token),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	pm, err := s.client.PaymentMethods.New(params)
	if err != nil {
		return nil, gatewayError("create payment method", err)
	}
	return pm, nil
}

// ConfirmSetupIntent creates and confirms an off-session setup intent,
// attaching the payment method to the customer
func (s *StripeService) ConfirmSetupIntent(ctx context.Context, customerID, paymentMethodID string) (*stripe.SetupIntent, error) {
	params := &stripe.SetupIntentParams{
		Customer:      stripe.String(customerID),
		PaymentMethod: stripe.String(paymentMethodID),
		Usage:         stripe.String(string(stripe.SetupIntentUsageOffSession)),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := s.client.SetupIntents.New(params)
	if err != nil {
		return nil, gatewayError("confirm setup intent", err)
	}
	return intent, nil
}

// ListCards lists the card payment methods attached to a customer
func (s *StripeService) ListCards(ctx context.Context, customerID string) ([]models.SavedCard, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	cards := []models.SavedCard{}
	iter := s.client.PaymentMethods.List(params)
	for iter.Next() {
		cards = append(cards, SavedCardFromPaymentMethod(iter.PaymentMethod()))
	}
	if err := iter.Err(); err != nil {
		return nil, gatewayError("list payment methods", err)
	}
	return cards, nil
}

// AttachPaymentMethod attaches an existing payment method to a customer
func (s *StripeService) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*stripe.PaymentMethod, error) {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	pm, err := s.client.PaymentMethods.Attach(paymentMethodID, params)
	if err != nil {
		return nil, gatewayError("attach payment method", err)
	}
	return pm, nil
}

// DetachPaymentMethod removes the attachment between a payment method and its
// customer. The underlying card data is owned by the gateway and is untouched.
func (s *StripeService) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := s.client.PaymentMethods.Detach(paymentMethodID, params); err != nil {
		return gatewayError("detach payment method", err)
	}
	return nil
}

// SetDefaultPaymentMethod sets the customer's default payment method for invoices
func (s *StripeService) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err := s.client.Customers.Update(customerID, params); err != nil {
		return gatewayError("set default payment method", err)
	}
	return nil
}

// VerifyWebhook validates the signature header against the exact payload bytes
// and parses the event. The error is returned raw so the caller can classify
// it as a signature failure.
func (s *StripeService) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}

// SavedCardFromPaymentMethod maps a Stripe payment method to the saved-card
// response shape
func SavedCardFromPaymentMethod(pm *stripe.PaymentMethod) models.SavedCard {
	card := models.SavedCard{ID: pm.ID}
	if pm.Card != nil {
		card.Brand = string(pm.Card.Brand)
		card.Last4 = pm.Card.Last4
		card.ExpMonth = pm.Card.ExpMonth
		card.ExpYear = pm.Card.ExpYear
	}
	if pm.BillingDetails != nil {
		card.Holder = pm.BillingDetails.Name
	}
	return card
}

// gatewayError wraps a Stripe SDK error into a gateway AppError, carrying the
// upstream message plus the error type and parameter when available
func gatewayError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = fmt.Sprintf("%s failed", op)
		}
		if stripeErr.Type != "" {
			msg = fmt.Sprintf("%s (type: %s)", msg, stripeErr.Type)
		}
		if stripeErr.Param != "" {
			msg = fmt.Sprintf("%s (param: %s)", msg, stripeErr.Param)
		}
		return models.NewGatewayError(msg, err)
	}
	return models.NewGatewayError(fmt.Sprintf("%s: %s", op, err.Error()), err)
}
