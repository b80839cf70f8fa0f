// Package strings provides helpers for list-valued settings.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeFold is DedupeAndTrim with case-insensitive comparison. The first
// spelling of each value wins.
func DedupeFold(values []string) []string {
	return dedupeBy(values, strings.TrimSpace, strings.ToLower)
}

// SplitList splits a comma separated setting such as "Cookie, Authorization"
// into trimmed, de-duplicated values. An empty string yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(s, ","))
}

func dedupe(values []string, normalize func(string) string) []string {
	return dedupeBy(values, normalize, func(s string) string { return s })
}

func dedupeBy(values []string, normalize, key func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = normalize(v)
		if v == "" {
			continue
		}
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}
	return result
}
