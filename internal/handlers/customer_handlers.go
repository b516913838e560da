package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cardpay_api/internal/models"
	"cardpay_api/internal/services"
)

const customerCacheTTL = 12 * time.Hour

// CustomerHandler handles gateway customer endpoints
type CustomerHandler struct {
	gateway Gateway
	store   OrderStore
	cache   *services.RedisCache
}

// NewCustomerHandler creates a new CustomerHandler. cache may be nil when no
// Redis is configured.
func NewCustomerHandler(gateway Gateway, store OrderStore, cache *services.RedisCache) *CustomerHandler {
	return &CustomerHandler{gateway: gateway, store: store, cache: cache}
}

type createCustomerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type getOrCreateCustomerRequest struct {
	FirebaseUID string `json:"firebaseUID"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

type createEphemeralKeyRequest struct {
	CustomerID string `json:"customer_id"`
}

// CreateCustomer creates a gateway customer from email and name
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.Email == "" || req.Name == "" {
		return models.NewValidationError("missing email or name")
	}

	customer, err := h.gateway.CreateCustomer(c.Request().Context(), req.Email, req.Name, nil)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"customerId": customer.ID,
	})
}

// GetOrCreateCustomer returns the gateway customer mapped to a firebase user,
// creating the customer and merge-writing the mapping when none exists. The
// mapping is mirrored in Redis when a cache is configured.
func (h *CustomerHandler) GetOrCreateCustomer(c echo.Context) error {
	var req getOrCreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.FirebaseUID == "" || req.Email == "" || req.Name == "" {
		return models.NewValidationError("missing required fields")
	}

	ctx := c.Request().Context()

	lookup := func() (string, error) {
		existing, err := h.store.StripeCustomerID(ctx, req.FirebaseUID)
		if err != nil {
			return "", err
		}
		if existing != "" {
			return existing, nil
		}

		customer, err := h.gateway.CreateCustomer(ctx, req.Email, req.Name, map[string]string{
			"firebaseUID": req.FirebaseUID,
		})
		if err != nil {
			return "", err
		}

		if err := h.store.SetStripeCustomerID(ctx, req.FirebaseUID, customer.ID); err != nil {
			return "", err
		}
		return customer.ID, nil
	}

	var customerID string
	var err error
	if h.cache != nil {
		customerID, err = services.GetOrSet(h.cache, ctx, "stripe_customer:"+req.FirebaseUID, customerCacheTTL, lookup)
	} else {
		customerID, err = lookup()
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"customerId": customerID,
	})
}

// CreateEphemeralKey creates an ephemeral key for the customer
func (h *CustomerHandler) CreateEphemeralKey(c echo.Context) error {
	var req createEphemeralKeyRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("invalid JSON payload")
	}
	if req.CustomerID == "" {
		return models.NewValidationError("missing customer_id")
	}

	key, err := h.gateway.CreateEphemeralKey(c.Request().Context(), req.CustomerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"ephemeralKeySecret": key.Secret,
	})
}
