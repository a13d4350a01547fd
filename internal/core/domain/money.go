package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// LedgerScale is the number of decimal places ledger amounts carry.
const LedgerScale = 2

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrAmountPrecision   = errors.New("amount must have at most 2 decimal places")
)

// ValidateAmount checks that amount is positive and representable in cents.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !amount.Equal(amount.Truncate(LedgerScale)) {
		return ErrAmountPrecision
	}
	return nil
}

// FromMinorUnits converts an integer amount of minor units into a ledger amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -LedgerScale)
}

// ToMinorUnits converts a ledger amount into minor units, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(LedgerScale).Round(0).IntPart()
}
