// Package core provides money parsing and formatting utilities.
//
// Amounts arrive from forms as free text. ParseAmount is the strict entry-time
// parser; the ledger never rejects a stored value, it only reads invalid ones
// as zero.
package core

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in the user's currency, held as an exact decimal
// so sums do not depend on the order values were added in. The zero value is
// 0. On the wire and in storage it is a plain JSON number.
type Amount struct {
	d decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// AmountFromFloat converts f. NaN and infinities become 0.
func AmountFromFloat(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Amount{}
	}
	return Amount{d: decimal.NewFromFloat(f)}
}

func AmountFromInt(i int64) Amount {
	return Amount{d: decimal.NewFromInt(i)}
}

func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

// Value returns the nearest float64, for metrics and percentages.
func (a Amount) Value() float64 { return a.d.InexactFloat64() }

func (a Amount) Add(b Amount) Amount       { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount       { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Cmp(b Amount) int          { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool       { return a.d.Equal(b.d) }
func (a Amount) IsZero() bool              { return a.d.IsZero() }
func (a Amount) IsNegative() bool          { return a.d.IsNegative() }
func (a Amount) String() string            { return a.d.String() }
func (a Amount) Max(b Amount) Amount       { return Amount{d: decimal.Max(a.d, b.d)} }
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }

// PercentOf returns a/whole*100, or 0 when whole is zero.
func (a Amount) PercentOf(whole Amount) float64 {
	if whole.d.IsZero() {
		return 0
	}
	return a.d.Mul(hundred).Div(whole.d).InexactFloat64()
}

// Split divides a into n equal parts rounded to two decimals. n must be
// positive.
func (a Amount) Split(n int) Amount {
	return Amount{d: a.d.DivRound(decimal.NewFromInt(int64(n)), 2)}
}

// SumAmounts adds vals exactly.
func SumAmounts(vals []Amount) Amount {
	sum := decimal.Zero
	for _, v := range vals {
		sum = sum.Add(v.d)
	}
	return Amount{d: sum}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON never fails: null, non-numeric strings and any other JSON type
// decode to 0 so a damaged record still loads.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Amount{}
	if len(data) == 0 {
		return nil
	}
	var raw string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		raw = string(data)
	default:
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	a.d = d
	return nil
}

var (
	plainAmount   = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
	groupedAmount = regexp.MustCompile(`^[1-9]\d{0,2}(,\d{3})+(\.\d+)?$`)
	commaDecimal  = regexp.MustCompile(`^\d*,\d{1,2}$`)
)

// ParseAmount converts a decimal string to an Amount.
//
// Commas that group thousands, as FormatAmount writes them, are accepted. A
// single comma followed by one or two digits is read as a decimal separator.
// Empty input, signs, exponents and any other shape are rejected with
// ErrInvalidAmount. Zero is allowed.
//
// Examples:
//
//	ParseAmount("500")      -> 500, nil
//	ParseAmount("1,500")    -> 1500, nil
//	ParseAmount("1,500.25") -> 1500.25, nil
//	ParseAmount("12,5")     -> 12.5, nil
//	ParseAmount("12,5678")  -> 0, ErrInvalidAmount
//	ParseAmount("-3")       -> 0, ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	switch {
	case plainAmount.MatchString(s):
	case groupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case commaDecimal.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{d: d}, nil
}

// FormatAmount renders an amount with thousands separators and at most two
// decimals, prefixed by the currency code ("PKR 1,500.5").
func FormatAmount(a Amount, currency string) string {
	r := a.d.Round(2)
	s := r.Abs().StringFixed(2)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "" {
		out += "." + frac
	}
	if r.IsNegative() {
		out = "-" + out
	}
	if currency == "" {
		return out
	}
	return currency + " " + out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
