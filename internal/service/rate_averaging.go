package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RateAveragingConfig tunes how daily tables are fetched.
type RateAveragingConfig struct {
	Symbols      []string      // empty = domain.TrackedCurrencies
	FetchTimeout time.Duration // per day
	Concurrency  int
	CacheTTL     time.Duration
}

// RateAveragingService implements ports.RateAverager.
type RateAveragingService struct {
	source     ports.RateSource
	cache      ports.RateTableCache // optional
	repo       ports.ExchangeRateRepository
	transactor ports.DBTransactor
	cfg        RateAveragingConfig
	now        func() time.Time
	log        zerolog.Logger
}

// NewRateAveragingService creates a new RateAveragingService.
func NewRateAveragingService(
	source ports.RateSource,
	cache ports.RateTableCache,
	repo ports.ExchangeRateRepository,
	transactor ports.DBTransactor,
	cfg RateAveragingConfig,
	log zerolog.Logger,
) *RateAveragingService {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = domain.TrackedCurrencies
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &RateAveragingService{
		source:     source,
		cache:      cache,
		repo:       repo,
		transactor: transactor,
		cfg:        cfg,
		now:        time.Now,
		log:        log,
	}
}

// ComputeAverages fetches every day in [start, end] relative to base, averages
// each currency over the days that quoted it and upserts the result. A day
// that fails is logged and left out. The call fails only if no day succeeded.
func (s *RateAveragingService) ComputeAverages(ctx context.Context, base string, start, end time.Time) (domain.RateTable, error) {
	start, end = domain.TruncateDay(start), domain.TruncateDay(end)
	if start.After(end) {
		return nil, apperror.ErrInvalidRange()
	}
	base, err := normalizeCurrency(base)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(s.cfg.Symbols))
	for _, c := range s.cfg.Symbols {
		if c = strings.ToUpper(c); c != base {
			symbols = append(symbols, c)
		}
	}

	days := domain.Days(start, end)
	tables := make([]domain.RateTable, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, day := range days {
		g.Go(func() error {
			table, err := s.fetchDay(gctx, base, day, symbols)
			if err != nil {
				s.log.Warn().Err(err).
					Str("date", day.Format(domain.DateLayout)).
					Str("currency", base).
					Msg("rate fetch failed, day excluded from average")
				return nil
			}
			tables[i] = table
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("compute averages: %w", err))
	}

	averages, fetched := meanRates(tables)
	if fetched == 0 {
		return nil, apperror.ErrUpstreamFailure("rate source", errors.New("no day in range returned rates"))
	}
	for _, c := range symbols {
		if _, ok := averages[c]; !ok {
			s.log.Warn().Str("currency", c).Msg("no samples for currency in window")
		}
	}

	if err := s.upsert(ctx, averages, s.now().UTC()); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("currency", base).
		Str("start", start.Format(domain.DateLayout)).
		Str("end", end.Format(domain.DateLayout)).
		Int("days", len(days)).
		Int("days_fetched", fetched).
		Int("currencies", len(averages)).
		Msg("exchange rates averaged")
	return averages, nil
}

// fetchDay returns one day's table, through the cache for days that are over.
func (s *RateAveragingService) fetchDay(ctx context.Context, base string, day time.Time, symbols []string) (domain.RateTable, error) {
	key := base + ":" + day.Format(domain.DateLayout)
	cacheable := s.cache != nil && day.Before(domain.TruncateDay(s.now()))

	if cacheable {
		table, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Debug().Err(err).Str("date", key).Msg("rate cache read failed")
		} else if table != nil {
			return table, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	table, err := s.source.Historical(fetchCtx, day, base, symbols)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, table, s.cfg.CacheTTL); err != nil {
			s.log.Debug().Err(err).Str("date", key).Msg("rate cache write failed")
		}
	}
	return table, nil
}

// meanRates averages each currency over the tables that carry it. Nil tables
// are failed days. It also returns how many days succeeded.
func meanRates(tables []domain.RateTable) (domain.RateTable, int) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	fetched := 0
	for _, table := range tables {
		if table == nil {
			continue
		}
		fetched++
		for code, rate := range table {
			sums[code] += rate
			counts[code]++
		}
	}

	averages := make(domain.RateTable, len(sums))
	for code, sum := range sums {
		averages[code] = sum / float64(counts[code])
	}
	return averages, fetched
}

// upsert writes averages: known currencies are updated in place, new ones
// inserted. Both passes share one transaction.
func (s *RateAveragingService) upsert(ctx context.Context, averages domain.RateTable, at time.Time) error {
	codes := averages.Currencies()
	if len(codes) == 0 {
		return nil
	}

	existing, err := s.repo.GetByCurrencies(ctx, codes)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get exchange rates: %w", err))
	}
	known := make(map[string]bool, len(existing))
	for _, r := range existing {
		known[strings.ToUpper(r.CurrencyCode)] = true
	}

	var inserts, updates []domain.ExchangeRate
	for _, code := range codes {
		r := domain.ExchangeRate{CurrencyCode: code, AverageRate: averages[code], CalculatedAt: at}
		if known[code] {
			updates = append(updates, r)
		} else {
			inserts = append(inserts, r)
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if len(inserts) > 0 {
		if err := s.repo.InsertBatch(ctx, dbTx, inserts); err != nil {
			return apperror.InternalError(fmt.Errorf("insert exchange rates: %w", err))
		}
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateBatch(ctx, dbTx, updates); err != nil {
			return apperror.InternalError(fmt.Errorf("update exchange rates: %w", err))
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Debug().Int("inserted", len(inserts)).Int("updated", len(updates)).Msg("exchange rates stored")
	return nil
}
