package matching

import "strings"

const (
	LocationExact  = 1.0
	LocationRegion = 0.5
)

func normalizeLocation(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// region returns the state/province component of "city, region[, country]".
func region(loc string) string {
	parts := strings.Split(loc, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// LocationScore compares two free-text locations. Missing locations never match.
func LocationScore(a, b string) float64 {
	na := normalizeLocation(a)
	nb := normalizeLocation(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return LocationExact
	}
	ra := region(na)
	if ra != "" && ra == region(nb) {
		return LocationRegion
	}
	return 0
}
