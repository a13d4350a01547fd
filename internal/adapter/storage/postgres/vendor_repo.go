package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VendorRepo implements ports.VendorRepository.
type VendorRepo struct {
	pool Pool
}

// NewVendorRepo creates a new VendorRepo.
func NewVendorRepo(pool Pool) *VendorRepo {
	return &VendorRepo{pool: pool}
}

// GetByID fetches a vendor by id.
func (r *VendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT id, user_id, name, default_currency, created_at FROM vendors WHERE id = $1`
	return r.get(ctx, "get vendor by id", query, id)
}

// GetByUserID fetches the vendor operated by a user.
func (r *VendorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT id, user_id, name, default_currency, created_at FROM vendors WHERE user_id = $1`
	return r.get(ctx, "get vendor by user id", query, userID)
}

func (r *VendorRepo) get(ctx context.Context, op, query string, arg uuid.UUID) (*domain.Vendor, error) {
	v := &domain.Vendor{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(&v.ID, &v.UserID, &v.Name, &v.DefaultCurrency, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v.DefaultCurrency = strings.ToUpper(v.DefaultCurrency)
	return v, nil
}
