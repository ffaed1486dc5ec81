package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// tonDecimals is the number of fractional digits of one TON in nanoton.
const tonDecimals = 9

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrTooPrecise    = errors.New("amount has more than 9 fractional digits")
)

// ParseTON converts a decimal TON string ("1.5") into nanoton.
func ParseTON(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	nano := d.Shift(tonDecimals)
	if !nano.Equal(nano.Truncate(0)) {
		return nil, ErrTooPrecise
	}
	return nano.BigInt(), nil
}

// FormatTON renders nanoton as a decimal TON string without trailing zeros.
func FormatTON(nano *big.Int) string {
	if nano == nil {
		return "0"
	}
	return decimal.NewFromBigInt(nano, -tonDecimals).String()
}

// ParseNano parses an integer nanoton string. Floats are rejected.
func ParseNano(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}
