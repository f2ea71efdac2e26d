package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a scaled number: Mantissa * 10^Exponent.
type Decimal struct {
	Mantissa int64
	Exponent int8
}

// NewDecimal creates a Decimal from its parts.
func NewDecimal(mantissa int64, exponent int8) Decimal {
	return Decimal{Mantissa: mantissa, Exponent: exponent}
}

// ParseDecimal parses text such as "123.45", "-0.001" or "15e-3".
//
// Parameters:
//   - s: Decimal text with optional sign, fraction and e/E exponent
//
// Returns:
//   - Decimal: Parsed value, normalized so the mantissa carries no trailing zeros
//   - error: Syntax error, or a mantissa/exponent outside the representable range
func ParseDecimal(s string) (Decimal, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Decimal{}, fmt.Errorf("parse decimal %q: empty", s)
	}

	exp := 0
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		e, err := strconv.Atoi(text[i+1:])
		if err != nil {
			return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
		}
		exp = e
		text = text[:i]
	}

	if i := strings.IndexByte(text, '.'); i >= 0 {
		frac := text[i+1:]
		exp -= len(frac)
		text = text[:i] + frac
	}

	if text == "" || text == "-" || text == "+" {
		return Decimal{}, fmt.Errorf("parse decimal %q: no digits", s)
	}

	mantissa, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}

	for mantissa != 0 && mantissa%10 == 0 {
		mantissa /= 10
		exp++
	}
	if mantissa == 0 {
		exp = 0
	}
	if exp < math.MinInt8 || exp > math.MaxInt8 {
		return Decimal{}, fmt.Errorf("parse decimal %q: exponent %d out of range", s, exp)
	}

	return Decimal{Mantissa: mantissa, Exponent: int8(exp)}, nil
}

// Normalize removes trailing zeros from the mantissa.
func (d Decimal) Normalize() Decimal {
	if d.Mantissa == 0 {
		return Decimal{}
	}
	for d.Mantissa%10 == 0 && d.Exponent < math.MaxInt8 {
		d.Mantissa /= 10
		d.Exponent++
	}

	return d
}

// Equal compares numeric values, so 1.50 equals 1.5.
func (d Decimal) Equal(other Decimal) bool {
	return d.Normalize() == other.Normalize()
}

// Float64 converts the decimal to the nearest float64.
func (d Decimal) Float64() float64 {
	return float64(d.Mantissa) * math.Pow10(int(d.Exponent))
}

func (d Decimal) String() string {
	if d.Exponent >= 0 {
		return strconv.FormatInt(d.Mantissa, 10) + strings.Repeat("0", int(d.Exponent))
	}

	digits := strconv.FormatInt(d.Mantissa, 10)
	sign := ""
	if d.Mantissa < 0 {
		sign, digits = "-", digits[1:]
	}

	scale := -int(d.Exponent)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	point := len(digits) - scale

	return sign + digits[:point] + "." + digits[point:]
}
