package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusCaptured OrderStatus = "captured"
	OrderStatusVoided   OrderStatus = "voided"
)

// Metadata keys and values that link child orders to their parent.
const (
	MetadataType    = "type"
	MetadataParent  = "parent"
	MetadataVendor  = "vendor"
	ChildOrderType  = "childOrder"
	DefaultProvider = "manual"
)

// Address is a postal address copied verbatim between parent and child orders.
type Address struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// LineItem is one purchased variant within an order. Amounts are minor units.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

// Total returns quantity × unit price.
func (li LineItem) Total() int64 {
	return int64(li.Quantity) * li.UnitPrice
}

// ShippingMethod is a shipping option chosen at checkout. VendorID tags
// methods that belong to a single vendor's fulfilment.
type ShippingMethod struct {
	ID       uuid.UUID         `json:"id"`
	OrderID  uuid.UUID         `json:"order_id"`
	OptionID string            `json:"option_id"`
	VendorID *uuid.UUID        `json:"vendor_id,omitempty"`
	Price    int64             `json:"price"`
	Data     map[string]string `json:"data,omitempty"`
}

// Order represents a checkout. A parent order spans vendors; child orders
// carry a single vendor's items and point back at their parent.
type Order struct {
	ID              uuid.UUID         `json:"id"`
	ParentOrderID   *uuid.UUID        `json:"parent_order_id,omitempty"`
	VendorID        *uuid.UUID        `json:"vendor_id,omitempty"`
	CustomerID      uuid.UUID         `json:"customer_id"`
	Email           string            `json:"email"`
	RegionID        string            `json:"region_id"`
	Currency        string            `json:"currency"`
	BillingAddress  Address           `json:"billing_address"`
	ShippingAddress Address           `json:"shipping_address"`
	DiscountCodes   []string          `json:"discount_codes,omitempty"`
	PaymentProvider string            `json:"payment_provider"`
	Items           []LineItem        `json:"items"`
	ShippingMethods []ShippingMethod  `json:"shipping_methods"`
	Subtotal        int64             `json:"subtotal"`
	ShippingTotal   int64             `json:"shipping_total"`
	Total           int64             `json:"total"`
	CapturedAmount  *int64            `json:"captured_amount,omitempty"`
	Status          OrderStatus       `json:"status"`
	Metadata        map[string]string `json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsChild reports whether the order was produced by a split.
func (o *Order) IsChild() bool {
	return o.ParentOrderID != nil || o.Metadata[MetadataType] == ChildOrderType
}

// ItemCount returns the number of units across all line items.
func (o *Order) ItemCount() int {
	n := 0
	for _, li := range o.Items {
		n += li.Quantity
	}
	return n
}

// RecalculateTotals derives subtotal, shipping and total from items and shipping methods.
func (o *Order) RecalculateTotals() {
	o.Subtotal = 0
	for _, li := range o.Items {
		o.Subtotal += li.Total()
	}
	o.ShippingTotal = 0
	for _, sm := range o.ShippingMethods {
		o.ShippingTotal += sm.Price
	}
	o.Total = o.Subtotal + o.ShippingTotal
}
