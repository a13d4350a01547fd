package postgres

import (
	"context"
	"fmt"
	"time"

	"marketplace-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ExchangeRateRepo implements ports.ExchangeRateRepository.
type ExchangeRateRepo struct {
	pool Pool
}

// NewExchangeRateRepo creates a new ExchangeRateRepo.
func NewExchangeRateRepo(pool Pool) *ExchangeRateRepo {
	return &ExchangeRateRepo{pool: pool}
}

// GetByCurrencies returns the stored rows for the given currency codes.
func (r *ExchangeRateRepo) GetByCurrencies(ctx context.Context, codes []string) ([]domain.ExchangeRate, error) {
	query := `SELECT currency_code, average_rate, calculated_at FROM exchange_rates
		WHERE currency_code = ANY($1)`

	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("get exchange rates: %w", err)
	}
	return collectRates(rows)
}

// ListAll returns every stored rate ordered by currency.
func (r *ExchangeRateRepo) ListAll(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := `SELECT currency_code, average_rate, calculated_at FROM exchange_rates ORDER BY currency_code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	return collectRates(rows)
}

// InsertBatch inserts previously unseen currencies in one statement.
func (r *ExchangeRateRepo) InsertBatch(ctx context.Context, tx pgx.Tx, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}
	query := `INSERT INTO exchange_rates (currency_code, average_rate, calculated_at)
		SELECT * FROM unnest($1::text[], $2::float8[], $3::timestamptz[])`

	codes, values, times := splitRates(rates)
	if _, err := tx.Exec(ctx, query, codes, values, times); err != nil {
		return wrap("insert exchange rates", err)
	}
	return nil
}

// UpdateBatch overwrites existing currencies in one statement.
func (r *ExchangeRateRepo) UpdateBatch(ctx context.Context, tx pgx.Tx, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}
	query := `UPDATE exchange_rates e
		SET average_rate = u.rate, calculated_at = u.at
		FROM unnest($1::text[], $2::float8[], $3::timestamptz[]) AS u(code, rate, at)
		WHERE e.currency_code = u.code`

	codes, values, times := splitRates(rates)
	tag, err := tx.Exec(ctx, query, codes, values, times)
	if err != nil {
		return fmt.Errorf("update exchange rates: %w", err)
	}
	if int(tag.RowsAffected()) != len(rates) {
		return fmt.Errorf("update exchange rates: %d of %d rows matched", tag.RowsAffected(), len(rates))
	}
	return nil
}

func splitRates(rates []domain.ExchangeRate) ([]string, []float64, []time.Time) {
	codes := make([]string, len(rates))
	values := make([]float64, len(rates))
	times := make([]time.Time, len(rates))
	for i, rate := range rates {
		codes[i] = rate.CurrencyCode
		values[i] = rate.AverageRate
		times[i] = rate.CalculatedAt
	}
	return codes, values, times
}

func collectRates(rows pgx.Rows) ([]domain.ExchangeRate, error) {
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		var rate domain.ExchangeRate
		if err := rows.Scan(&rate.CurrencyCode, &rate.AverageRate, &rate.CalculatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
