package ingest

import "github.com/UnknownOlympus/meridian/internal/models"

// FilterByID keeps the points whose ID is in ids. An empty selection keeps
// every point. The input is never modified; a new slice is returned.
func FilterByID(points []models.LocatedPoint, ids []string) []models.LocatedPoint {
	return filter(points, ids, func(p models.LocatedPoint) string { return p.ID })
}

// FilterByAttribute keeps the points whose attribute value is in values.
// An empty selection keeps every point.
func FilterByAttribute(points []models.LocatedPoint, attribute string, values []string) []models.LocatedPoint {
	return filter(points, values, func(p models.LocatedPoint) string { return p.Attribute(attribute) })
}

// DistinctAttribute counts the distinct non-empty values of an attribute.
func DistinctAttribute(points []models.LocatedPoint, attribute string) int {
	seen := make(map[string]struct{})
	for _, p := range points {
		if v := p.Attribute(attribute); v != "" {
			seen[v] = struct{}{}
		}
	}

	return len(seen)
}

func filter(points []models.LocatedPoint, selected []string, key func(models.LocatedPoint) string) []models.LocatedPoint {
	out := make([]models.LocatedPoint, 0, len(points))
	if len(selected) == 0 {
		return append(out, points...)
	}

	allowed := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		allowed[s] = struct{}{}
	}
	for _, p := range points {
		if _, ok := allowed[key(p)]; ok {
			out = append(out, p)
		}
	}

	return out
}
