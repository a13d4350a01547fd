package domain

import (
	"sort"
	"time"
)

// ExchangeRate is the averaged rate of one currency relative to the base
// currency. One row per currency, overwritten on every averaging run.
type ExchangeRate struct {
	CurrencyCode string    `json:"currency_code"`
	AverageRate  float64   `json:"average_rate"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// RateTable maps a currency code to its rate relative to some base.
type RateTable map[string]float64

// Currencies returns the table's currency codes in sorted order.
func (t RateTable) Currencies() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// DateLayout is the calendar-day format used by rate lookups and cache keys.
const DateLayout = "2006-01-02"

// Days enumerates every calendar day in [start, end], normalised to UTC midnight.
func Days(start, end time.Time) []time.Time {
	s := TruncateDay(start)
	e := TruncateDay(end)
	var days []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// TruncateDay returns midnight UTC of t's calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
