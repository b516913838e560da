package handlers

import (
	"context"

	"github.com/stripe/stripe-go/v81"

	"cardpay_api/internal/models"
)

// Gateway abstracts the payment gateway SDK operations the handlers need.
// Implemented by services.StripeService.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*stripe.Customer, error)
	CreateEphemeralKey(ctx context.Context, customerID string) (*stripe.EphemeralKey, error)
	CreatePaymentIntent(ctx context.Context, amount int64, customerID string) (*stripe.PaymentIntent, error)
	CreateCardPaymentIntent(ctx context.Context, amount int64, customerID, paymentMethodID string) (*stripe.PaymentIntent, error)
	CreatePaymentMethodFromToken(ctx context.Context, token string) (*stripe.PaymentMethod, error)
	ConfirmSetupIntent(ctx context.Context, customerID, paymentMethodID string) (*stripe.SetupIntent, error)
	ListCards(ctx context.Context, customerID string) ([]models.SavedCard, error)
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*stripe.PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

// OrderStore abstracts the document store operations the handlers need.
// Implemented by services.FirestoreStore.
type OrderStore interface {
	StripeCustomerID(ctx context.Context, firebaseUID string) (string, error)
	SetStripeCustomerID(ctx context.Context, firebaseUID, customerID string) error
	MergeOrder(ctx context.Context, userID, orderID string, upd models.OrderUpdate) error
}
