package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	SOLDecimals  = 9 // SOL has 9 decimals (lamports)
	USDCDecimals = 6 // USDC has 6 decimals (micro)
)

// ToRawAmount converts a whole-unit amount to the integer string the venue
// expects, shifting by the mint's decimals. The fractional remainder below
// one raw unit is truncated.
func ToRawAmount(amount decimal.Decimal, decimals int32) string {
	return amount.Shift(decimals).Truncate(0).String()
}

// FromRawAmount converts a raw integer string back to whole units.
func FromRawAmount(raw string, decimals int32) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid raw amount %q: %w", raw, err)
	}
	return d.Shift(-decimals), nil
}

// SOLToLamports converts whole SOL to lamports.
func SOLToLamports(sol decimal.Decimal) string {
	return ToRawAmount(sol, SOLDecimals)
}

// USDToLamports converts a USD amount to lamports at the given SOL price.
func USDToLamports(usd, solPrice decimal.Decimal) (string, error) {
	if solPrice.IsZero() {
		return "", fmt.Errorf("SOL price is zero")
	}
	return ToRawAmount(usd.Div(solPrice), SOLDecimals), nil
}

// Notional returns the USD value of an amount at a unit price.
func Notional(amount, unitPrice decimal.Decimal) decimal.Decimal {
	return amount.Mul(unitPrice)
}
