package postgres

import (
	"context"
	"fmt"
	"strings"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepo implements ports.CatalogRepository over products, variants and prices.
type CatalogRepo struct {
	pool Pool
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(pool Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// GetProductVendors maps each product id to its owning vendor. Products
// without a vendor are absent from the result.
func (r *CatalogRepo) GetProductVendors(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := make(map[uuid.UUID]uuid.UUID, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	query := `SELECT id, vendor_id FROM products WHERE id = ANY($1) AND vendor_id IS NOT NULL`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get product vendors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, vendorID uuid.UUID
		if err := rows.Scan(&productID, &vendorID); err != nil {
			return nil, fmt.Errorf("scan product vendor: %w", err)
		}
		out[productID] = vendorID
	}
	return out, rows.Err()
}

// ListProducts loads every product with its variants and prices in one pass.
func (r *CatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT p.id, p.vendor_id, p.title, v.default_currency,
			pv.id, pv.title, vp.id, vp.currency, vp.amount
		FROM products p
		LEFT JOIN vendors v ON v.id = p.vendor_id
		LEFT JOIN product_variants pv ON pv.product_id = p.id
		LEFT JOIN variant_prices vp ON vp.variant_id = pv.id
		ORDER BY p.id, pv.id, vp.currency`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			productID    uuid.UUID
			vendorID     *uuid.UUID
			title        string
			baseCurrency *string
			variantID    *uuid.UUID
			variantTitle *string
			priceID      *uuid.UUID
			currency     *string
			amount       *int64
		)
		if err := rows.Scan(&productID, &vendorID, &title, &baseCurrency,
			&variantID, &variantTitle, &priceID, &currency, &amount); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if n := len(products); n == 0 || products[n-1].ID != productID {
			p := domain.Product{ID: productID, VendorID: vendorID, Title: title}
			if baseCurrency != nil {
				p.BaseCurrency = strings.ToUpper(*baseCurrency)
			}
			products = append(products, p)
		}
		if variantID == nil {
			continue
		}

		p := &products[len(products)-1]
		if n := len(p.Variants); n == 0 || p.Variants[n-1].ID != *variantID {
			v := domain.Variant{ID: *variantID, ProductID: productID}
			if variantTitle != nil {
				v.Title = *variantTitle
			}
			p.Variants = append(p.Variants, v)
		}
		if priceID == nil {
			continue
		}

		v := &p.Variants[len(p.Variants)-1]
		v.Prices = append(v.Prices, domain.Price{
			ID:        *priceID,
			VariantID: *variantID,
			Currency:  strings.ToUpper(*currency),
			Amount:    *amount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpsertVariantPrices writes a variant's prices in one transaction. Updates
// carrying an id overwrite that price; the rest are inserted, or overwrite the
// existing price in the same currency.
func (r *CatalogRepo) UpsertVariantPrices(ctx context.Context, variantID uuid.UUID, updates []domain.PriceUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, u := range updates {
			currency := strings.ToUpper(u.Currency)
			if u.ID != nil {
				tag, err := tx.Exec(ctx, `UPDATE variant_prices SET amount = $1, updated_at = NOW()
					WHERE id = $2 AND variant_id = $3`, u.Amount, *u.ID, variantID)
				if err != nil {
					return wrap("update variant price", err)
				}
				if tag.RowsAffected() == 1 {
					continue
				}
			}
			if _, err := tx.Exec(ctx, `INSERT INTO variant_prices (id, variant_id, currency, amount)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (variant_id, currency) DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()`,
				uuid.New(), variantID, currency, u.Amount,
			); err != nil {
				return wrap("insert variant price", err)
			}
		}
		return nil
	})
}
