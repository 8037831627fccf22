package records

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingIntPattern   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloatPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// parseIntLenient reads the leading integer of s ("12 kg" -> 12, "4.7" -> 4).
// Anything without a leading integer yields 0; out of range values are
// clamped to the largest int of the same sign.
func parseIntLenient(s string) int {
	match := leadingIntPattern.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	n, err := strconv.ParseInt(match, 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return int(n)
}

// parseFloatLenient reads the leading decimal number of s ("25.5L" -> 25.5).
// Anything without a leading number yields 0.
func parseFloatLenient(s string) float64 {
	match := leadingFloatPattern.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return f
}

// optionalInt is parseIntLenient with zero mapped to "not recorded".
func optionalInt(s string) *int {
	n := parseIntLenient(s)
	if n == 0 {
		return nil
	}
	return &n
}

// col returns the i-th field of a row, or "" when the row is shorter.
func col(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// ParseSequence extracts the numeric part of a prefixed id ("OWN012" -> 12).
// The first occurrence of prefix is removed; a non-numeric rest yields 0.
func ParseSequence(id, prefix string) int {
	return parseIntLenient(strings.Replace(id, prefix, "", 1))
}
