package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cardpay_api/internal/models"
)

// IntentHandler handles payment intent and setup intent endpoints
type IntentHandler struct {
	gateway Gateway
}

func NewIntentHandler(gateway Gateway) *IntentHandler {
	return &IntentHandler{gateway: gateway}
}

type createPaymentIntentRequest struct {
	Amount     int64  `json:"amount"`
	CustomerID string `json:"customerId"`
}

type createCardPaymentIntentRequest struct {
	Amount          int64  `json:"amount"`
	CustomerID      string `json:"customerId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

type createSetupIntentRequest struct {
	CustomerID string `json:"customerId"`
	CardToken  string `json:"cardToken"`
}

// CreatePaymentIntent creates a payment intent with automatic payment methods.
// Amount is in minor currency units.
func (h *IntentHandler) CreatePaymentIntent(c echo.Context) error {
	var req createPaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.Amount <= 0 || req.CustomerID == "" {
		return models.NewValidationError("missing amount or customerId")
	}

	intent, err := h.gateway.CreatePaymentIntent(c.Request().Context(), req.Amount, req.CustomerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"clientSecret": intent.ClientSecret,
	})
}

// CreateCardPaymentIntent creates an unconfirmed payment intent against a
// saved card
func (h *IntentHandler) CreateCardPaymentIntent(c echo.Context) error {
	var req createCardPaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.Amount <= 0 || req.CustomerID == "" || req.PaymentMethodID == "" {
		return models.NewValidationError("missing amount, customerId or paymentMethodId")
	}

	intent, err := h.gateway.CreateCardPaymentIntent(c.Request().Context(), req.Amount, req.CustomerID, req.PaymentMethodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"clientSecret": intent.ClientSecret,
	})
}

// CreateSetupIntent converts a card token into a payment method, then creates
// and confirms an off-session setup intent attaching it to the customer
func (h *IntentHandler) CreateSetupIntent(c echo.Context) error {
	var req createSetupIntentRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.CustomerID == "" || req.CardToken == "" {
		return models.NewValidationError("missing customerId or cardToken")
	}

	ctx := c.Request().Context()

	pm, err := h.gateway.CreatePaymentMethodFromToken(ctx, req.CardToken)
	if err != nil {
		return err
	}

	intent, err := h.gateway.ConfirmSetupIntent(ctx, req.CustomerID, pm.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"clientSecret":    intent.ClientSecret,
		"paymentMethodId": pm.ID,
		"setupIntentId":   intent.ID,
		"status":          intent.Status,
	})
}
