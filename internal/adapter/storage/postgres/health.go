package postgres

import (
	"context"
	"fmt"
	"strings"
)

// requiredTables are created by migrations/0001_init.sql.
var requiredTables = []string{
	"orders", "split_progress", "wallets", "wallet_accounts",
	"wallet_account_transactions", "exchange_rates", "payment_webhooks",
}

// HealthCheck implements ports.HealthChecker for PostgreSQL. Besides
// connectivity it reports a schema that has not been migrated.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	rows, err := h.pool.Query(ctx,
		`SELECT tablename FROM pg_catalog.pg_tables
		 WHERE schemaname = current_schema() AND tablename = ANY($1)`, requiredTables)
	if err != nil {
		return fmt.Errorf("query schema: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(requiredTables))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query schema: %w", err)
	}

	var missing []string
	for _, t := range requiredTables {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema not migrated, missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
