package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

// AccountNumberGenerator composes externally visible account numbers as
// prefix + 6 time-derived digits + 4 random digits, e.g. AC4831207265.
type AccountNumberGenerator struct {
	prefix string
	now    func() time.Time
	random io.Reader
}

// NewAccountNumberGenerator creates a generator using prefix.
func NewAccountNumberGenerator(prefix string) *AccountNumberGenerator {
	return &AccountNumberGenerator{
		prefix: prefix,
		now:    time.Now,
		random: rand.Reader,
	}
}

var randomSegmentMax = big.NewInt(10000)

// Next returns a new candidate number. Uniqueness is enforced by storage.
func (g *AccountNumberGenerator) Next() (string, error) {
	timeSegment := g.now().UnixMilli() % 1_000_000
	n, err := rand.Int(g.random, randomSegmentMax)
	if err != nil {
		return "", fmt.Errorf("generate account number: %w", err)
	}
	return fmt.Sprintf("%s%06d%04d", g.prefix, timeSegment, n.Int64()), nil
}
