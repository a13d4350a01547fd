package service

import (
	"context"
	"fmt"
	"strings"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ConvertPrice converts basePrice, in minor units of base, into target using
// rates quoted against a common reference currency:
//
//	round(basePrice × rate[target] / rate[base])
//
// Rounding is half away from zero. ok is false when either rate is missing or
// not positive.
func ConvertPrice(basePrice int64, rates domain.RateTable, base, target string) (int64, bool) {
	baseRate, ok := rates[strings.ToUpper(base)]
	if !ok || baseRate <= 0 {
		return 0, false
	}
	targetRate, ok := rates[strings.ToUpper(target)]
	if !ok || targetRate <= 0 {
		return 0, false
	}
	factor := decimal.NewFromFloat(targetRate).Div(decimal.NewFromFloat(baseRate))
	return decimal.NewFromInt(basePrice).Mul(factor).Round(0).IntPart(), true
}

// PriceConversionEngine implements ports.PricePropagator over the catalog.
type PriceConversionEngine struct {
	catalog ports.CatalogRepository
	log     zerolog.Logger
}

// NewPriceConversionEngine creates a new PriceConversionEngine.
func NewPriceConversionEngine(catalog ports.CatalogRepository, log zerolog.Logger) *PriceConversionEngine {
	return &PriceConversionEngine{catalog: catalog, log: log}
}

// Propagate rewrites every variant's prices from its base-currency price.
// Products without a vendor base currency, or whose base currency is missing
// from rates, are skipped. Variants without a base price are skipped.
func (e *PriceConversionEngine) Propagate(ctx context.Context, rates domain.RateTable) (*ports.PropagationReport, error) {
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list products: %w", err))
	}

	report := &ports.PropagationReport{}
	targets := rates.Currencies()

	for _, product := range products {
		base := strings.ToUpper(product.BaseCurrency)
		if base == "" || rates[base] <= 0 {
			report.ProductsSkipped++
			e.log.Debug().
				Str("product_id", product.ID.String()).
				Str("currency", base).
				Msg("product has no usable base currency, skipping")
			continue
		}

		for _, variant := range product.Variants {
			updates, ok := planVariantPrices(variant, base, rates, targets)
			if !ok {
				report.VariantsSkipped++
				e.log.Warn().
					Str("product_id", product.ID.String()).
					Str("variant_id", variant.ID.String()).
					Str("currency", base).
					Msg("variant has no price in base currency, skipping")
				continue
			}
			if err := e.catalog.UpsertVariantPrices(ctx, variant.ID, updates); err != nil {
				return report, apperror.InternalError(fmt.Errorf("upsert prices for variant %s: %w", variant.ID, err))
			}
			report.VariantsUpdated++
			report.PricesWritten += len(updates)
		}
	}

	e.log.Info().
		Int("variants_updated", report.VariantsUpdated).
		Int("variants_skipped", report.VariantsSkipped).
		Int("products_skipped", report.ProductsSkipped).
		Int("prices_written", report.PricesWritten).
		Msg("prices propagated")
	return report, nil
}

// planVariantPrices returns the writes for one variant: the base price
// unchanged, then one converted price per target. Existing prices are
// addressed by id.
func planVariantPrices(v domain.Variant, base string, rates domain.RateTable, targets []string) ([]domain.PriceUpdate, bool) {
	basePrice := v.PriceIn(base)
	if basePrice == nil {
		return nil, false
	}

	baseID := basePrice.ID
	updates := []domain.PriceUpdate{{ID: &baseID, Currency: base, Amount: basePrice.Amount}}

	for _, target := range targets {
		if target == base {
			continue
		}
		amount, ok := ConvertPrice(basePrice.Amount, rates, base, target)
		if !ok {
			continue
		}
		u := domain.PriceUpdate{Currency: target, Amount: amount}
		if existing := v.PriceIn(target); existing != nil {
			id := existing.ID
			u.ID = &id
		}
		updates = append(updates, u)
	}
	return updates, true
}
