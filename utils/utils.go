// Package utils holds small helpers shared by the form handlers and the CLI.
package utils

import (
	"math"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Truncate cuts s to at most n runes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	var size, off int
	for i := 0; i < n && off < len(s); i++ {
		_, size = utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return s[:off]
}

// ClampInt limits v to [low, high].
func ClampInt(v, low, high int) int {
	return lo.Clamp(v, low, high)
}

// ClampFloat limits v to [low, high]. NaN becomes low.
func ClampFloat(v, low, high float64) float64 {
	if math.IsNaN(v) {
		return low
	}
	return lo.Clamp(v, low, high)
}
