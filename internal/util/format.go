package util

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DateFormat is the standard date format used in table cells.
	DateFormat = "2006-01-02"

	// DateTimeFormat is the standard datetime format used in table cells.
	DateTimeFormat = "2006-01-02 15:04"
)

// FormatDate formats a time as a date string.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// FormatDateTime formats a time as a datetime string.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

// GroupDigits formats an integer with comma thousands separators, so large
// prices stay readable in narrow table columns.
func GroupDigits(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatMoney renders a whole-currency amount for display.
func FormatMoney(n int) string {
	return GroupDigits(n)
}

// FormatFloat renders a float with two decimal places, grouping the integer
// part. Used for computed cost-of-goods values.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	dot := strings.Index(s, ".")
	whole, _ := strconv.Atoi(s[:dot])
	return GroupDigits(whole) + s[dot:]
}

// Truncate shortens s to at most max runes, appending an ellipsis when it
// was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
