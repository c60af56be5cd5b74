package utils

import (
	"strconv"
	"strings"
)

func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}

// NormalizePhone reduces a number to its last ten digits; anything shorter is
// rejected.
func NormalizePhone(s string) (string, bool) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 10 {
		return "", false
	}
	return d[len(d)-10:], true
}
