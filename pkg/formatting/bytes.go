// Package formatting converts byte sizes to and from strings like "50MB".
package formatting

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Binary units. Int64 tops out just under 8 EB.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n in the largest base-1024 unit that keeps the value at
// or above one, with precision decimal places.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	exp := 0
	for v := n; v >= 1024 && exp < len(units)-1; v >>= 10 {
		exp++
	}
	if exp == 0 {
		return fmt.Sprintf("%s%d B", sign, n)
	}

	size := float64(n) / float64(int64(1)<<(10*exp))
	return sign + strconv.FormatFloat(size, 'f', precision, 64) + " " + units[exp]
}

// ParseBytes reads a size such as "50MB", "1.5 KiB" or "1024".
// Units are case-insensitive and a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	num, unit := s, ""
	if split >= 0 {
		num, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if num == "" || num[0] == '.' {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}
	if unit == "" {
		return int64(value), nil
	}

	unit = strings.ToUpper(unit)
	if iec, ok := strings.CutSuffix(unit, "IB"); ok && len(iec) == 1 {
		unit = iec + "B"
	}

	exp := slices.Index(units, unit)
	if exp == -1 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}
	return int64(value * float64(int64(1)<<(10*exp))), nil
}
