package models

// SavedCard is the response shape for a card payment method attached to a customer
type SavedCard struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"expMonth"`
	ExpYear  int64  `json:"expYear"`
	Holder   string `json:"holder"`
}
