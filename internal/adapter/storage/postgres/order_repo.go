package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, parent_order_id, vendor_id, customer_id, email, region_id, currency,
	billing_address, shipping_address, discount_codes, payment_provider,
	subtotal, shipping_total, total, captured_amount, status, metadata, created_at, updated_at`

// OrderRepo implements ports.OrderRepository over the commerce platform's order tables.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// GetByID loads an order with its line items and shipping methods.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadRelations(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// CreateChild inserts a child order with its items and shipping methods in one
// transaction. An order that already exists under the same id is left as is.
func (r *OrderRepo) CreateChild(ctx context.Context, child *domain.Order) error {
	billing, err := json.Marshal(child.BillingAddress)
	if err != nil {
		return fmt.Errorf("encode billing address: %w", err)
	}
	shipping, err := json.Marshal(child.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}
	meta, err := encodeMetadata(child.Metadata)
	if err != nil {
		return err
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			ON CONFLICT (id) DO NOTHING`,
			child.ID, child.ParentOrderID, child.VendorID, child.CustomerID, child.Email,
			child.RegionID, child.Currency, billing, shipping, child.DiscountCodes,
			child.PaymentProvider, child.Subtotal, child.ShippingTotal, child.Total,
			child.CapturedAmount, string(child.Status), meta, child.CreatedAt, child.UpdatedAt,
		)
		if err != nil {
			return wrap("insert child order", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		for _, li := range child.Items {
			if _, err := tx.Exec(ctx, `INSERT INTO order_line_items
				(id, order_id, product_id, variant_id, title, quantity, unit_price)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				li.ID, child.ID, li.ProductID, li.VariantID, li.Title, li.Quantity, li.UnitPrice,
			); err != nil {
				return wrap("insert child line item", err)
			}
		}
		for _, sm := range child.ShippingMethods {
			data, err := encodeMetadata(sm.Data)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `INSERT INTO order_shipping_methods
				(id, order_id, option_id, vendor_id, price, data)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				sm.ID, child.ID, sm.OptionID, sm.VendorID, sm.Price, data,
			); err != nil {
				return wrap("insert child shipping method", err)
			}
		}
		return nil
	})
}

// MarkCaptured records the settled amount and moves the order to captured.
func (r *OrderRepo) MarkCaptured(ctx context.Context, id uuid.UUID, amount int64) error {
	query := `UPDATE orders SET status = $1, captured_amount = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, string(domain.OrderStatusCaptured), amount, id)
	if err != nil {
		return fmt.Errorf("mark order captured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %s", id)
	}
	return nil
}

// ListChildren returns the children of a parent order ordered by creation.
func (r *OrderRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE parent_order_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child orders: %w", err)
	}
	var children []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan child order: %w", err)
		}
		children = append(children, *o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list child orders: %w", err)
	}

	for i := range children {
		if err := r.loadRelations(ctx, &children[i]); err != nil {
			return nil, err
		}
	}
	return children, nil
}

func (r *OrderRepo) loadRelations(ctx context.Context, o *domain.Order) error {
	items, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, variant_id, title, quantity, unit_price
		FROM order_line_items WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("list line items: %w", err)
	}
	o.Items = nil
	for items.Next() {
		var li domain.LineItem
		if err := items.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.VariantID,
			&li.Title, &li.Quantity, &li.UnitPrice); err != nil {
			items.Close()
			return fmt.Errorf("scan line item: %w", err)
		}
		o.Items = append(o.Items, li)
	}
	items.Close()
	if err := items.Err(); err != nil {
		return fmt.Errorf("list line items: %w", err)
	}

	methods, err := r.pool.Query(ctx, `SELECT id, order_id, option_id, vendor_id, price, data
		FROM order_shipping_methods WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return fmt.Errorf("list shipping methods: %w", err)
	}
	defer methods.Close()
	o.ShippingMethods = nil
	for methods.Next() {
		var sm domain.ShippingMethod
		var data []byte
		if err := methods.Scan(&sm.ID, &sm.OrderID, &sm.OptionID, &sm.VendorID, &sm.Price, &data); err != nil {
			return fmt.Errorf("scan shipping method: %w", err)
		}
		if sm.Data, err = decodeMetadata(data); err != nil {
			return err
		}
		o.ShippingMethods = append(o.ShippingMethods, sm)
	}
	return methods.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	var billing, shipping, meta []byte
	var status string
	if err := row.Scan(
		&o.ID, &o.ParentOrderID, &o.VendorID, &o.CustomerID, &o.Email, &o.RegionID, &o.Currency,
		&billing, &shipping, &o.DiscountCodes, &o.PaymentProvider,
		&o.Subtotal, &o.ShippingTotal, &o.Total, &o.CapturedAmount, &status, &meta,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if len(billing) > 0 {
		if err := json.Unmarshal(billing, &o.BillingAddress); err != nil {
			return nil, fmt.Errorf("decode billing address: %w", err)
		}
	}
	if len(shipping) > 0 {
		if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode shipping address: %w", err)
		}
	}
	var err error
	if o.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return o, nil
}
