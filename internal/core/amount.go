package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a whole-rupiah string to an integer amount.
//
// Dots, commas and spaces are accepted as thousands separators, so
// "25.000", "25,000" and "25 000" all parse to 25000. An empty string is
// zero since costs are optional. Negative values and fractions are rejected.
//
// Examples:
//   ParseAmount("")       -> 0, nil
//   ParseAmount("50000")  -> 50000, nil
//   ParseAmount("Rp 25.000") -> 25000, nil
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ',' || r == ' ':
		default:
			return 0, ErrInvalidAmount
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseOdometer reads a stored odometer value. Unset, unparseable or
// negative readings are treated as 0.
func ParseOdometer(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// FormatRupiah renders an amount the way id-ID locale does, e.g. "Rp 1.250.000".
func FormatRupiah(v int64) string {
	return "Rp " + groupThousands(v)
}

// FormatKm renders a distance with id-ID grouping, e.g. "12.500 km".
func FormatKm(v int64) string {
	return groupThousands(v) + " km"
}

func groupThousands(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
