// Package units converts between human-readable ETH amounts and the 18-decimal
// base unit (wei) used on chain.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits of one ETH.
const Decimals = 18

// maxInputLen bounds the raw input so exponent arithmetic stays cheap.
const maxInputLen = 96

// ErrInvalidAmount is returned for any amount that is not a positive number
// exactly representable in base units.
var ErrInvalidAmount = errors.New("invalid amount")

// plainDecimal accepts digits with an optional fraction ("1", "1.5", ".5").
// Signs and exponent notation are rejected so "1e3" can never mean 1000.
var plainDecimal = regexp.MustCompile(`^(\d+(\.\d+)?|\d*\.\d+)$`)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ParseEther converts a decimal ETH string such as "1.5" into wei.
// The conversion is exact: inputs with more than 18 fractional digits are
// rejected rather than rounded.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	if len(s) > maxInputLen {
		return nil, fmt.Errorf("%w: amount is too long", ErrInvalidAmount)
	}

	if !plainDecimal.MatchString(s) {
		return nil, fmt.Errorf("%w: %q is not a plain decimal number", ErrInvalidAmount, s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidAmount)
	}
	// exponents outside this window are either below 1 wei or above uint256
	if exp := d.Exponent(); exp > 80 || exp < -80 {
		return nil, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}

	wei := d.Shift(Decimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, Decimals)
	}
	out := wei.BigInt()
	if out.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}
	return out, nil
}

// FormatEther renders wei as a decimal ETH string without trailing zeros,
// e.g. 3250000000000000000 -> "3.25".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -Decimals).String()
}
