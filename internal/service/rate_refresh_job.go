package service

import (
	"context"
	"strings"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/rs/zerolog"
)

// RateRefreshJob implements ports.RateRefresher: average the trailing window,
// then push the averages into catalog prices.
type RateRefreshJob struct {
	averager     ports.RateAverager
	propagator   ports.PricePropagator
	baseCurrency string
	lookbackDays int
	now          func() time.Time
	log          zerolog.Logger
}

// NewRateRefreshJob creates a new RateRefreshJob.
func NewRateRefreshJob(averager ports.RateAverager, propagator ports.PricePropagator, baseCurrency string, lookbackDays int, log zerolog.Logger) *RateRefreshJob {
	if baseCurrency == "" {
		baseCurrency = domain.BaseCurrency
	}
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	return &RateRefreshJob{
		averager:     averager,
		propagator:   propagator,
		baseCurrency: strings.ToUpper(baseCurrency),
		lookbackDays: lookbackDays,
		now:          time.Now,
		log:          log,
	}
}

// Window returns the default window: the lookback days before now, through now.
func (j *RateRefreshJob) Window(now time.Time) (time.Time, time.Time) {
	end := domain.TruncateDay(now)
	return end.AddDate(0, 0, -j.lookbackDays), end
}

// Refresh averages rates over [start, end] and propagates them into prices.
// Zero start and end select the default window.
func (j *RateRefreshJob) Refresh(ctx context.Context, start, end time.Time) (*ports.RefreshReport, error) {
	if start.IsZero() && end.IsZero() {
		start, end = j.Window(j.now())
	} else if start.IsZero() || end.IsZero() {
		return nil, apperror.Validation("start and end must be given together")
	}

	averages, err := j.averager.ComputeAverages(ctx, j.baseCurrency, start, end)
	if err != nil {
		return nil, err
	}

	rates := make(domain.RateTable, len(averages)+1)
	for code, rate := range averages {
		rates[code] = rate
	}
	rates[j.baseCurrency] = 1.0

	propagation, err := j.propagator.Propagate(ctx, rates)
	if err != nil {
		return nil, err
	}

	j.log.Info().
		Str("start", start.Format(domain.DateLayout)).
		Str("end", end.Format(domain.DateLayout)).
		Int("currencies", len(rates)).
		Int("variants_updated", propagation.VariantsUpdated).
		Msg("rate refresh completed")
	return &ports.RefreshReport{Rates: rates, Propagation: propagation}, nil
}
