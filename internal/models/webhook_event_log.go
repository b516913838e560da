package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type PaymentGateway string

const (
	PaymentGatewayStripe PaymentGateway = "stripe"
)

type WebhookOutcome string

const (
	WebhookOutcomeProcessed WebhookOutcome = "processed"
	WebhookOutcomeIgnored   WebhookOutcome = "ignored"
	WebhookOutcomeRejected  WebhookOutcome = "rejected"
	WebhookOutcomeFailed    WebhookOutcome = "failed"
)

// WebhookEventLog is an audit record of an inbound gateway event delivery
type WebhookEventLog struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PaymentGateway PaymentGateway  `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	EventID        string          `gorm:"type:varchar(100);index" json:"event_id"`
	EventType      string          `gorm:"type:varchar(100)" json:"event_type"`
	OrderID        string          `gorm:"type:varchar(100);index" json:"order_id"`
	UserID         string          `gorm:"type:varchar(100);index" json:"user_id"`
	Outcome        WebhookOutcome  `gorm:"type:varchar(20)" json:"outcome"`
	Detail         string          `gorm:"type:text" json:"detail"`
	Payload        json.RawMessage `gorm:"type:jsonb" json:"payload"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}
