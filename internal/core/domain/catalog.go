package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Price is a variant's amount in one currency, in minor units.
type Price struct {
	ID        uuid.UUID `json:"id"`
	VariantID uuid.UUID `json:"variant_id"`
	Currency  string    `json:"currency"`
	Amount    int64     `json:"amount"`
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Prices    []Price   `json:"prices"`
}

// PriceIn returns the variant's price in currency, or nil.
func (v *Variant) PriceIn(currency string) *Price {
	for i := range v.Prices {
		if strings.EqualFold(v.Prices[i].Currency, currency) {
			return &v.Prices[i]
		}
	}
	return nil
}

// Product is a catalog entry owned by at most one vendor. BaseCurrency is the
// owning vendor's default currency and is empty when no vendor is set.
type Product struct {
	ID           uuid.UUID  `json:"id"`
	VendorID     *uuid.UUID `json:"vendor_id,omitempty"`
	BaseCurrency string     `json:"base_currency,omitempty"`
	Title        string     `json:"title"`
	Variants     []Variant  `json:"variants"`
}

// PriceUpdate is a write against a variant's price list. A nil ID creates a price.
type PriceUpdate struct {
	ID       *uuid.UUID
	Currency string
	Amount   int64
}
