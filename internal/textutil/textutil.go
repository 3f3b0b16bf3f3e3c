// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil shortens display text by runes so multi-byte characters
// are never split.
package textutil

const ellipsis = "..."

// Truncate shortens s to at most n runes, ending in "..." when cut.
// Limits too small to hold the ellipsis cut without it.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return Clip(s, n)
	}
	return string(r[:n-len(ellipsis)]) + ellipsis
}

// Clip cuts s to at most n runes. A negative n yields "".
func Clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:max(n, 0)])
}
