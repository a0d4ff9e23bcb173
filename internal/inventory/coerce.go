package inventory

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
)

// maxCount bounds every parsed count so it always fits an INTEGER column.
const maxCount = math.MaxInt32

// ParseCount converts free-form input to an integer the way a lenient form
// parser would: leading whitespace and an optional sign are accepted, the
// longest run of digits is used ("3.7" and "3 tickets" are 3), and anything
// without a leading integer is 0. The sign is preserved so callers can reject
// negative requests explicitly. Magnitudes saturate at MaxInt32.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n <= maxCount {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0
	}
	if n > maxCount {
		n = maxCount
	}
	if neg {
		return -n
	}
	return n
}

// NonNegative clamps n to zero or above.
func NonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// CountOrZero coerces a nullable stored count. NULL and negative values are 0.
func CountOrZero(v *int64) int {
	if v == nil || *v < 0 {
		return 0
	}
	if *v > maxCount {
		return maxCount
	}
	return int(*v)
}

var decimalPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseCents reads a decimal money amount such as "20", "19.5" or "7.255" and
// rounds it half away from zero to whole cents. ok is false when the input has
// no leading number.
func ParseCents(s string) (c model.Cents, ok bool) {
	lit := decimalPrefix.FindString(strings.TrimSpace(s))
	if lit == "" {
		return 0, false
	}
	if strings.ContainsAny(lit, "eE") {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/100 {
			return 0, false
		}
		return model.Cents(math.Round(f * 100)), true
	}

	neg := false
	if lit[0] == '+' || lit[0] == '-' {
		neg = lit[0] == '-'
		lit = lit[1:]
	}
	whole, frac, _ := strings.Cut(lit, ".")
	if len(whole) > 15 {
		return 0, false
	}

	var units int64
	if whole != "" {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, false
		}
		units = v
	}
	frac += "000"
	cents := units*100 + int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if frac[2] >= '5' {
		cents++
	}
	if neg {
		cents = -cents
	}
	return model.Cents(cents), true
}

// CostOrZero is ParseCents with the fail-soft policy applied: unparsable and
// negative amounts become zero.
func CostOrZero(s string) model.Cents {
	c, ok := ParseCents(s)
	if !ok || c < 0 {
		return 0
	}
	return c
}

// CentsOrZero coerces a nullable stored amount in cents. NULL and negative
// values are 0.
func CentsOrZero(v *int64) model.Cents {
	if v == nil || *v < 0 {
		return 0
	}
	return model.Cents(*v)
}
