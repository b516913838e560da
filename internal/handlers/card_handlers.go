package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cardpay_api/internal/models"
	"cardpay_api/internal/services"
)

// CardHandler handles saved-card management endpoints
type CardHandler struct {
	gateway Gateway
}

func NewCardHandler(gateway Gateway) *CardHandler {
	return &CardHandler{gateway: gateway}
}

type listSavedCardsRequest struct {
	CustomerID string `json:"customerId"`
}

type attachCardRequest struct {
	CustomerID      string `json:"customerId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

type detachCardRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

type setDefaultCardRequest struct {
	CustomerID      string `json:"customerId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// ListSavedCards lists the card payment methods attached to a customer
func (h *CardHandler) ListSavedCards(c echo.Context) error {
	var req listSavedCardsRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.CustomerID == "" {
		return models.NewValidationError("missing customerId")
	}

	cards, err := h.gateway.ListCards(c.Request().Context(), req.CustomerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cards)
}

// AttachCard attaches an existing payment method to a customer
func (h *CardHandler) AttachCard(c echo.Context) error {
	var req attachCardRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.CustomerID == "" || req.PaymentMethodID == "" {
		return models.NewValidationError("missing customerId or paymentMethodId")
	}

	pm, err := h.gateway.AttachPaymentMethod(c.Request().Context(), req.CustomerID, req.PaymentMethodID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, services.SavedCardFromPaymentMethod(pm))
}

// DetachCard detaches a payment method from its customer
func (h *CardHandler) DetachCard(c echo.Context) error {
	var req detachCardRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.PaymentMethodID == "" {
		return models.NewValidationError("missing paymentMethodId")
	}

	if err := h.gateway.DetachPaymentMethod(c.Request().Context(), req.PaymentMethodID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// SetDefaultCard sets the customer's default payment method
func (h *CardHandler) SetDefaultCard(c echo.Context) error {
	var req setDefaultCardRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.CustomerID == "" || req.PaymentMethodID == "" {
		return models.NewValidationError("missing customerId or paymentMethodId")
	}

	if err := h.gateway.SetDefaultPaymentMethod(c.Request().Context(), req.CustomerID, req.PaymentMethodID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
