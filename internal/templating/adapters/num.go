// Package adapters wraps template values in chainable, read-only helpers.
package adapters

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// DefaultDateFormat is the pattern FormatDate uses when none is given.
const DefaultDateFormat = "MM-dd-yyyy HH:mm:ss"

// Num is a numeric template value. Every method returns a new value and
// leaves the receiver unchanged.
type Num struct {
	v float64
}

// NumOf wraps v.
func NumOf(v float64) Num {
	return Num{v: v}
}

// NewNum wraps any Go numeric value, a Num, or a numeric string.
func NewNum(v any) (Num, error) {
	switch n := v.(type) {
	case Num:
		return n, nil
	case int:
		return Num{float64(n)}, nil
	case int8:
		return Num{float64(n)}, nil
	case int16:
		return Num{float64(n)}, nil
	case int32:
		return Num{float64(n)}, nil
	case int64:
		return Num{float64(n)}, nil
	case uint:
		return Num{float64(n)}, nil
	case uint8:
		return Num{float64(n)}, nil
	case uint16:
		return Num{float64(n)}, nil
	case uint32:
		return Num{float64(n)}, nil
	case uint64:
		return Num{float64(n)}, nil
	case float32:
		return Num{float64(n)}, nil
	case float64:
		return Num{n}, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return Num{}, fmt.Errorf("not a number: %q", n)
		}
		return Num{f}, nil
	}
	return Num{}, fmt.Errorf("cannot use %T as a number", v)
}

func operand(v any) float64 {
	n, err := NewNum(v)
	if err != nil {
		return math.NaN()
	}
	return n.v
}

// Plus returns n + x.
func (n Num) Plus(x any) Num { return Num{n.v + operand(x)} }

// Minus returns n - x.
func (n Num) Minus(x any) Num { return Num{n.v - operand(x)} }

// Times returns n * x.
func (n Num) Times(x any) Num { return Num{n.v * operand(x)} }

// DividedBy returns n / x. Dividing by zero yields ±Inf, or NaN for 0/0.
func (n Num) DividedBy(x any) Num { return Num{n.v / operand(x)} }

// Value returns the wrapped number.
func (n Num) Value() float64 { return n.v }

// Int returns the wrapped number truncated toward zero.
func (n Num) Int() int64 { return int64(n.v) }

// String renders the number without trailing zeros.
func (n Num) String() string { return humanize.Ftoa(n.v) }

// ToHumanTimeDuration reads the value as seconds and spells it out,
// e.g. "1 hour, 1 minute, and 5 seconds".
func (n Num) ToHumanTimeDuration() string {
	secs := int64(math.Abs(n.v))
	units := []struct {
		size             int64
		singular, plural string
	}{
		{7 * 24 * 3600, "week", "weeks"},
		{24 * 3600, "day", "days"},
		{3600, "hour", "hours"},
		{60, "minute", "minutes"},
		{1, "second", "seconds"},
	}

	var parts []string
	for _, u := range units {
		if q := secs / u.size; q > 0 {
			parts = append(parts, english.Plural(int(q), u.singular, u.plural))
			secs %= u.size
		}
	}
	if len(parts) == 0 {
		return english.Plural(0, "second", "seconds")
	}
	return english.OxfordWordSeries(parts, "and")
}

var (
	smallWords = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tensWords  = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	scaleWords = []string{"", "thousand", "million", "billion", "trillion", "quadrillion"}
)

// ToWord spells the number in English, e.g. "one hundred twenty-three".
// Fractions are read digit by digit after "point".
func (n Num) ToWord() string {
	if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
		return n.String()
	}
	if math.Abs(n.v) >= 1e18 {
		return n.String()
	}

	s := humanize.Ftoa(math.Abs(n.v))
	whole, frac, _ := strings.Cut(s, ".")
	w, _ := strconv.ParseInt(whole, 10, 64)

	out := intWords(w)
	if frac != "" {
		digits := make([]string, 0, len(frac))
		for _, d := range frac {
			digits = append(digits, smallWords[d-'0'])
		}
		out += " point " + strings.Join(digits, " ")
	}
	if n.v < 0 {
		out = "minus " + out
	}
	return out
}

func intWords(v int64) string {
	if v == 0 {
		return smallWords[0]
	}
	var groups []string
	for scale := 0; v > 0; scale++ {
		chunk := v % 1000
		v /= 1000
		if chunk == 0 {
			continue
		}
		words := hundredWords(chunk)
		if scaleWords[scale] != "" {
			words += " " + scaleWords[scale]
		}
		groups = append([]string{words}, groups...)
	}
	return strings.Join(groups, " ")
}

func hundredWords(v int64) string {
	var parts []string
	if v >= 100 {
		parts = append(parts, smallWords[v/100]+" hundred")
		v %= 100
	}
	switch {
	case v >= 20:
		w := tensWords[v/10]
		if v%10 != 0 {
			w += "-" + smallWords[v%10]
		}
		parts = append(parts, w)
	case v > 0:
		parts = append(parts, smallWords[v])
	}
	return strings.Join(parts, " ")
}
