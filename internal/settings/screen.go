package settings

import "strings"

// NormalizeScreen converts a persisted screen name to one of visible.
// Missing or unavailable values resolve to the first visible screen, or ""
// when nothing is visible.
func NormalizeScreen(raw string, visible []string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, v := range visible {
		if v == name {
			return v
		}
	}
	if len(visible) == 0 {
		return ""
	}
	return visible[0]
}
