// Package resolve implements shipment resolution: matching classified
// documents to shipments through a priority cascade of thread continuity and
// normalized identifier lookup, with conflict detection and link repair.
package resolve

import (
	"regexp"
	"strings"
)

var carrierPrefixed = regexp.MustCompile(`^[A-Za-z]{3}\d+$`)

// Variants expands an identifier value into the normalized forms used for
// index keys and lookups, most specific first: the trimmed verbatim value,
// its uppercase form, the punctuation-stripped form, the carrier
// prefix-stripped form for values like MSK263805268, and a digits-only form
// when enough digits remain to be distinctive. Carriers and shippers quote
// the same reference with wildly inconsistent formatting; matching on
// variants absorbs that without guessing.
func Variants(value string) []string {
	seen := make(map[string]struct{})
	variants := make([]string, 0, 5)

	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	trimmed := strings.TrimSpace(value)
	add(trimmed)

	upper := strings.ToUpper(trimmed)
	add(upper)

	stripped := stripSeparators(upper)
	add(stripped)

	if carrierPrefixed.MatchString(stripped) {
		add(stripped[3:])
	}

	if digits := digitsOnly(stripped); len(digits) >= 6 {
		add(digits)
	}

	return variants
}

// Canonical returns the index key form of an identifier value: uppercased
// with separators removed.
func Canonical(value string) string {
	return stripSeparators(strings.ToUpper(strings.TrimSpace(value)))
}

func stripSeparators(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
