package refine

import "strings"

// AddKeywords splits raw on commas and appends the new tokens to existing.
// Duplicates are matched case-sensitively and the first occurrence wins.
// The input slice is never modified.
func AddKeywords(existing []string, raw string) []string {
	out := make([]string, 0, len(existing))
	seen := make(map[string]struct{}, len(existing))
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, k := range existing {
		add(k)
	}
	for _, part := range strings.Split(raw, ",") {
		if token := strings.TrimSpace(part); token != "" {
			add(token)
		}
	}
	return out
}

// RemoveKeyword drops every keyword equal to k ignoring case.
func RemoveKeyword(existing []string, k string) []string {
	out := make([]string, 0, len(existing))
	for _, e := range existing {
		if strings.EqualFold(e, k) {
			continue
		}
		out = append(out, e)
	}
	return out
}
