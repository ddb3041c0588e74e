// Package amount provides the nano-denominated quantity type the ledger
// accounts in. All ledger arithmetic stays in integers, so amounts never
// accumulate floating-point error.
package amount

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a quantity of VEY counted in nanoVEY, the smallest unit the
// ledger tracks. It follows the time.Duration convention: a plain integer
// type whose unit constants make literals readable, e.g. 5 * amount.VEY.
type Amount int64

const (
	NanoVEY  Amount = 1
	MicroVEY        = 1000 * NanoVEY
	MilliVEY        = 1000 * MicroVEY
	VEY             = 1000 * MilliVEY
)

const fracDigits = 9

var ErrRange = errors.New("amount out of range")

// Parse reads a decimal VEY quantity such as "100000000", "12.5" or
// "12.5 VEY". An "nVEY" suffix switches to raw nano units, which must be an
// integer. Parsing is exact; at most nine fractional digits are accepted.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutSuffix(s, "nVEY"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid nanoVEY amount %q", s)
		}
		return Amount(n), nil
	}
	if rest, ok := strings.CutSuffix(s, "VEY"); ok {
		s = strings.TrimSpace(rest)
	}
	if s == "" {
		return 0, errors.New("empty amount")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid VEY amount %q", s)
	}
	if len(frac) > fracDigits {
		return 0, fmt.Errorf("more than %d fractional digits in %q", fracDigits, s)
	}
	var f uint64
	if frac != "" {
		f, err = strconv.ParseUint(frac+strings.Repeat("0", fracDigits-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid VEY amount %q", s)
		}
	}

	if w > math.MaxInt64/uint64(VEY) {
		return 0, ErrRange
	}
	n := w*uint64(VEY) + f
	if n > math.MaxInt64 {
		return 0, ErrRange
	}
	if neg {
		return Amount(-int64(n)), nil
	}
	return Amount(n), nil
}

// Nano returns the raw nanoVEY count.
func (a Amount) Nano() int64 { return int64(a) }

// Tokens returns the amount as a floating-point count of whole VEY. Meant
// for display and ratio math, never for ledger arithmetic.
func (a Amount) Tokens() float64 { return float64(a) / float64(VEY) }

// Percent returns p percent of a, truncated toward zero.
func (a Amount) Percent(p int64) Amount { return a * Amount(p) / 100 }

// String renders the amount as whole VEY with trailing zeros trimmed:
// Amount(1500000000).String() == "1.5 VEY". The output parses back via
// Parse without loss.
func (a Amount) String() string {
	sign := ""
	u := uint64(a)
	if a < 0 {
		sign = "-"
		u = uint64(-a)
	}
	whole := u / uint64(VEY)
	frac := u % uint64(VEY)
	if frac == 0 {
		return sign + strconv.FormatUint(whole, 10) + " VEY"
	}
	fs := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return sign + strconv.FormatUint(whole, 10) + "." + fs + " VEY"
}
