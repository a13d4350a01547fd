package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is an independent seller. Payouts go to the wallet of the owning user
// in the vendor's default currency.
type Vendor struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	DefaultCurrency string    `json:"default_currency"`
	CreatedAt       time.Time `json:"created_at"`
}

// Caller identifies the user on whose behalf an operation runs.
type Caller struct {
	UserID uuid.UUID
}
