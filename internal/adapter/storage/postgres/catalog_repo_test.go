package postgres

import (
	"context"
	"errors"
	"testing"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepo_GetProductVendors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	p1, p2, orphan := uuid.New(), uuid.New(), uuid.New()
	v1 := uuid.New()
	ids := []uuid.UUID{p1, p2, orphan}

	mock.ExpectQuery("SELECT id, vendor_id FROM products WHERE id = ANY").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"id", "vendor_id"}).
			AddRow(p1, v1).
			AddRow(p2, v1))

	got, err := repo.GetProductVendors(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]uuid.UUID{p1: v1, p2: v1}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_GetProductVendors_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	got, err := NewCatalogRepo(mock).GetProductVendors(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	withVendor, noVendor := uuid.New(), uuid.New()
	vendorID := uuid.New()
	variantA, variantB := uuid.New(), uuid.New()
	ngn, usd := "ngn", "usd"
	amtNGN, amtUSD := int64(150000), int64(100)
	titleA, titleB := "Small", "Large"
	currency := "NGN"
	priceNGN, priceUSD := uuid.New(), uuid.New()

	cols := []string{"id", "vendor_id", "title", "default_currency", "variant_id", "variant_title", "price_id", "currency", "amount"}
	mock.ExpectQuery("SELECT .+ FROM products p LEFT JOIN vendors").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(withVendor, &vendorID, "Basket", &currency, &variantA, &titleA, &priceNGN, &ngn, &amtNGN).
			AddRow(withVendor, &vendorID, "Basket", &currency, &variantA, &titleA, &priceUSD, &usd, &amtUSD).
			AddRow(withVendor, &vendorID, "Basket", &currency, &variantB, &titleB, (*uuid.UUID)(nil), (*string)(nil), (*int64)(nil)).
			AddRow(noVendor, (*uuid.UUID)(nil), "Loose", (*string)(nil), (*uuid.UUID)(nil), (*string)(nil), (*uuid.UUID)(nil), (*string)(nil), (*int64)(nil)))

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	basket := products[0]
	assert.Equal(t, "NGN", basket.BaseCurrency)
	require.Len(t, basket.Variants, 2)
	require.Len(t, basket.Variants[0].Prices, 2)
	assert.Equal(t, "USD", basket.Variants[0].Prices[1].Currency)
	assert.Equal(t, amtNGN, basket.Variants[0].PriceIn("NGN").Amount)
	assert.Empty(t, basket.Variants[1].Prices)

	loose := products[1]
	assert.Nil(t, loose.VendorID)
	assert.Empty(t, loose.BaseCurrency)
	assert.Empty(t, loose.Variants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_UpsertVariantPrices(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	variantID, existing := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE variant_prices SET amount").
		WithArgs(int64(1500), existing, variantID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO variant_prices .+ ON CONFLICT \\(variant_id, currency\\) DO UPDATE").
		WithArgs(pgxmock.AnyArg(), variantID, "KES", int64(12900)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.UpsertVariantPrices(context.Background(), variantID, []domain.PriceUpdate{
		{ID: &existing, Currency: "NGN", Amount: 1500},
		{Currency: "kes", Amount: 12900},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_UpsertVariantPrices_StaleIDFallsBackToInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	variantID, stale := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE variant_prices").
		WithArgs(int64(700), stale, variantID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("INSERT INTO variant_prices").
		WithArgs(pgxmock.AnyArg(), variantID, "GHS", int64(700)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.UpsertVariantPrices(context.Background(), variantID, []domain.PriceUpdate{
		{ID: &stale, Currency: "GHS", Amount: 700},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_UpsertVariantPrices_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	variantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO variant_prices").
		WithArgs(pgxmock.AnyArg(), variantID, "USD", int64(100)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = repo.UpsertVariantPrices(context.Background(), variantID, []domain.PriceUpdate{{Currency: "USD", Amount: 100}})
	assert.ErrorContains(t, err, "insert variant price")
	assert.NoError(t, mock.ExpectationsWereMet())
}
