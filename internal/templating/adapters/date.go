package adapters

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatDate reads the value as a Unix timestamp and formats it in UTC using
// an ICU-style pattern (yyyy, MM, dd, HH, mm, ss, ...). Text in single quotes
// is copied verbatim. The pattern defaults to DefaultDateFormat.
func (n Num) FormatDate(format ...string) string {
	pattern := DefaultDateFormat
	if len(format) > 0 && format[0] != "" {
		pattern = format[0]
	}
	return formatPattern(n.Time(), pattern)
}

// Time returns the value as a UTC time.
func (n Num) Time() time.Time {
	sec, frac := math.Modf(n.v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func formatPattern(t time.Time, pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			i = quoted(&b, pattern, i)
			continue
		}

		if !isPatternLetter(c) {
			b.WriteByte(c)
			i++
			continue
		}

		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		b.WriteString(field(t, c, j-i))
		i = j
	}
	return b.String()
}

// quoted copies the literal starting at the quote at i and returns the index
// after it. Two quotes in a row stand for one, inside or outside a literal.
func quoted(b *strings.Builder, pattern string, i int) int {
	if i+1 < len(pattern) && pattern[i+1] == '\'' {
		b.WriteByte('\'')
		return i + 2
	}
	i++
	for i < len(pattern) {
		if pattern[i] == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return i + 1
		}
		b.WriteByte(pattern[i])
		i++
	}
	return i
}

func isPatternLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func field(t time.Time, c byte, count int) string {
	pad := func(v int) string { return fmt.Sprintf("%0*d", count, v) }
	switch c {
	case 'y':
		if count == 2 {
			return fmt.Sprintf("%02d", t.Year()%100)
		}
		return pad(t.Year())
	case 'M':
		switch {
		case count >= 4:
			return t.Month().String()
		case count == 3:
			return t.Month().String()[:3]
		}
		return pad(int(t.Month()))
	case 'd':
		return pad(t.Day())
	case 'D':
		return pad(t.YearDay())
	case 'E':
		if count >= 4 {
			return t.Weekday().String()
		}
		return t.Weekday().String()[:3]
	case 'H':
		return pad(t.Hour())
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h)
	case 'm':
		return pad(t.Minute())
	case 's':
		return pad(t.Second())
	case 'S':
		ms := fmt.Sprintf("%09d", t.Nanosecond())
		if count > len(ms) {
			count = len(ms)
		}
		return ms[:count]
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'z':
		return t.Format("MST")
	case 'Z':
		return t.Format("-0700")
	}
	return strings.Repeat(string(c), count)
}
