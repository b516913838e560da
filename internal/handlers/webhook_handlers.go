package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"

	"cardpay_api/internal/models"
)

// maxWebhookBody caps the raw payload read; gateway events are small
const maxWebhookBody = int64(65536)

// WebhookHandler translates gateway-pushed events into idempotent order-state
// updates. It reads the raw request body because signature verification is
// computed over the exact bytes.
type WebhookHandler struct {
	gateway Gateway
	orders  OrderStore
	db      *gorm.DB
}

// NewWebhookHandler creates a new WebhookHandler. db may be nil when no audit
// database is configured.
func NewWebhookHandler(gateway Gateway, orders OrderStore, db *gorm.DB) *WebhookHandler {
	return &WebhookHandler{gateway: gateway, orders: orders, db: db}
}

// HandleWebhook verifies the event signature, branches on event type, and
// merge-writes the derived order state. Unrecognized event types are
// acknowledged and ignored so the gateway does not retry them.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxWebhookBody)
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return models.NewValidationError("unable to read request body")
	}

	signature := req.Header.Get("Stripe-Signature")
	event, err := h.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		h.audit(c, &models.WebhookEventLog{
			PaymentGateway: models.PaymentGatewayStripe,
			Outcome:        models.WebhookOutcomeRejected,
			Detail:         err.Error(),
			Payload:        json.RawMessage(payload),
		})
		return models.NewSignatureError(err)
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		return h.processPaymentIntentEvent(c, event, payload)
	default:
		h.audit(c, &models.WebhookEventLog{
			PaymentGateway: models.PaymentGatewayStripe,
			EventID:        event.ID,
			EventType:      string(event.Type),
			Outcome:        models.WebhookOutcomeIgnored,
		})
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}
}

func (h *WebhookHandler) processPaymentIntentEvent(c echo.Context, event stripe.Event, payload []byte) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return models.NewValidationError("malformed payment intent payload")
	}

	orderID := intent.Metadata["orderId"]
	userID := intent.Metadata["userId"]

	if userID == "" || orderID == "" {
		missing := "userId"
		if userID != "" {
			missing = "orderId"
		}
		c.Logger().Errorf("no %s found in payment intent %s metadata", missing, intent.ID)
		h.audit(c, &models.WebhookEventLog{
			PaymentGateway: models.PaymentGatewayStripe,
			EventID:        event.ID,
			EventType:      string(event.Type),
			OrderID:        orderID,
			UserID:         userID,
			Outcome:        models.WebhookOutcomeFailed,
			Detail:         "missing " + missing + " in metadata",
			Payload:        json.RawMessage(payload),
		})
		return models.NewDataIntegrityError("missing " + missing + " in metadata")
	}

	upd := orderUpdateFromIntent(&intent, event.Type)
	if err := h.orders.MergeOrder(c.Request().Context(), userID, orderID, upd); err != nil {
		h.audit(c, &models.WebhookEventLog{
			PaymentGateway: models.PaymentGatewayStripe,
			EventID:        event.ID,
			EventType:      string(event.Type),
			OrderID:        orderID,
			UserID:         userID,
			Outcome:        models.WebhookOutcomeFailed,
			Detail:         err.Error(),
		})
		// Surfaced as a server error so the gateway retries delivery
		return err
	}

	h.audit(c, &models.WebhookEventLog{
		PaymentGateway: models.PaymentGatewayStripe,
		EventID:        event.ID,
		EventType:      string(event.Type),
		OrderID:        orderID,
		UserID:         userID,
		Outcome:        models.WebhookOutcomeProcessed,
		Payload:        json.RawMessage(payload),
	})

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

// orderUpdateFromIntent derives the order fields to merge for a payment intent
// event: "delivered" on success, "cancelled" on failure carrying the last
// error message verbatim
func orderUpdateFromIntent(intent *stripe.PaymentIntent, eventType stripe.EventType) models.OrderUpdate {
	upd := models.OrderUpdate{
		Amount:          intent.Amount,
		Currency:        string(intent.Currency),
		Created:         intent.Created,
		PaymentIntentID: intent.ID,
	}
	if intent.PaymentMethod != nil {
		upd.PaymentMethodID = intent.PaymentMethod.ID
	}

	if eventType == stripe.EventTypePaymentIntentSucceeded {
		upd.Status = models.OrderStatusDelivered
		return upd
	}

	upd.Status = models.OrderStatusCancelled
	upd.LastError = "Payment failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		upd.LastError = intent.LastPaymentError.Msg
	}
	return upd
}

// audit records the delivery in the audit database, best effort
func (h *WebhookHandler) audit(c echo.Context, entry *models.WebhookEventLog) {
	if h.db == nil {
		return
	}
	if err := h.db.Create(entry).Error; err != nil {
		c.Logger().Errorf("webhook audit write failed: %v", err)
	}
}
