package utils

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpaceTrim = regexp.MustCompile(`\s+`)
)

// Keywords derives lowercase search keywords from a product name.
// Duplicates are removed, order of first appearance is preserved.
func Keywords(name string) []string {
	cleaned := nonAlnumRegex.ReplaceAllString(strings.ToLower(name), " ")
	parts := multiSpaceTrim.Split(strings.TrimSpace(cleaned), -1)

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func StrPtr(s string) *string {
	return &s
}
