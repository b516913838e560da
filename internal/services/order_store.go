package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cardpay_api/internal/models"
)

const (
	usersCollection  = "users"
	ordersCollection = "orders"
)

// FirestoreStore persists user and order documents. Orders live in a
// subcollection under the owning user, keyed by order id, and are written with
// merge semantics only.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// StripeCustomerID returns the gateway customer id stored on the user
// document, or empty when the user has none yet
func (s *FirestoreStore) StripeCustomerID(ctx context.Context, firebaseUID string) (string, error) {
	snap, err := s.client.Collection(usersCollection).Doc(firebaseUID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", nil
	}
	if err != nil {
		return "", models.NewPersistenceError(fmt.Errorf("fetch user %s: %w", firebaseUID, err))
	}

	var user struct {
		StripeCustomerID string `firestore:"stripeCustomerId"`
	}
	if err := snap.DataTo(&user); err != nil {
		return "", models.NewPersistenceError(fmt.Errorf("decode user %s: %w", firebaseUID, err))
	}
	return user.StripeCustomerID, nil
}

// SetStripeCustomerID merge-writes the gateway customer id onto the user
// document, leaving other fields untouched
func (s *FirestoreStore) SetStripeCustomerID(ctx context.Context, firebaseUID, customerID string) error {
	_, err := s.client.Collection(usersCollection).Doc(firebaseUID).Set(ctx, map[string]interface{}{
		"stripeCustomerId": customerID,
	}, firestore.MergeAll)
	if err != nil {
		return models.NewPersistenceError(fmt.Errorf("save customer id for user %s: %w", firebaseUID, err))
	}
	return nil
}

// MergeOrder merge-writes the derived order fields under
// users/{userID}/orders/{orderID}. The write is keyed by the stable order id
// and touches only the given fields, so duplicate event delivery converges.
func (s *FirestoreStore) MergeOrder(ctx context.Context, userID, orderID string, upd models.OrderUpdate) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).
		Collection(ordersCollection).Doc(orderID).
		Set(ctx, orderUpdateFields(upd), firestore.MergeAll)
	if err != nil {
		return models.NewPersistenceError(fmt.Errorf("merge order %s for user %s: %w", orderID, userID, err))
	}
	return nil
}

// orderUpdateFields maps an order update onto the document fields to merge.
// Optional fields are omitted when empty so an update carrying less detail
// never blanks out fields written by an earlier one.
func orderUpdateFields(upd models.OrderUpdate) map[string]interface{} {
	fields := map[string]interface{}{
		"status":          string(upd.Status),
		"amount":          upd.Amount,
		"currency":        upd.Currency,
		"created":         upd.Created,
		"paymentIntentId": upd.PaymentIntentID,
		"updatedAt":       firestore.ServerTimestamp,
	}
	if upd.PaymentMethodID != "" {
		fields["paymentMethod"] = upd.PaymentMethodID
	}
	if upd.LastError != "" {
		fields["lastError"] = upd.LastError
	}
	return fields
}
