package session

import "strings"

// ParseItems splits a comma or pipe separated item list. Entries are
// trimmed, empty entries dropped and duplicates removed. When nothing
// usable remains, fallback is returned and the second result is true.
func ParseItems(raw string, fallback []string) ([]string, bool) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '|'
	})

	items := normalizeItems(fields)
	if len(items) == 0 {
		return normalizeItems(fallback), true
	}
	return items, false
}

func normalizeItems(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, f := range in {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
