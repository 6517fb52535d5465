package listing

import "strings"

// normalizeLevel folds the many level spellings upstream data uses
// ("elementary", "ElementarySchool", "Junior High", ...) onto the three
// levels the dashboard cares about. Unrecognized levels come back empty and
// the field stays absent.
func normalizeLevel(raw string) string {
	l := strings.ToLower(raw)
	switch {
	case strings.Contains(l, "elem"):
		return "Elementary"
	case strings.Contains(l, "middle"), strings.Contains(l, "junior"):
		return "Middle"
	case strings.Contains(l, "high"):
		return "High"
	}
	return ""
}

// dedupeSchools keeps the first occurrence per (level, lowercased name),
// preserving discovery order. Later duplicates are dropped even when their
// rating differs.
func dedupeSchools(in []School) []School {
	seen := make(map[string]bool, len(in))
	out := make([]School, 0, len(in))
	for _, s := range in {
		key := s.Level + "|" + strings.ToLower(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
