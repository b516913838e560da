package models

// OrderStatus represents the lifecycle state of an order document.
// Transitions are driven only by confirmed gateway events, never by
// client-facing handlers.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderUpdate holds the fields the webhook processor merges into an order
// document. Empty optional fields are omitted from the merge so repeated
// delivery of the same event converges to the same final state.
type OrderUpdate struct {
	Status          OrderStatus
	Amount          int64
	Currency        string
	Created         int64
	PaymentMethodID string
	PaymentIntentID string
	LastError       string
}
