package models

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point, in degrees.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point, in degrees.
}

// LocatedPoint is a customer or a technician placed on the map.
// Attributes carry display values (unit, fleet, address) and are never
// interpreted by the matching engine.
type LocatedPoint struct {
	ID         string            `json:"id"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewLocatedPoint builds a point without attributes.
func NewLocatedPoint(id string, lat, lon float64) LocatedPoint {
	return LocatedPoint{ID: id, Latitude: lat, Longitude: lon}
}

// Coordinates returns the position of the point.
func (p LocatedPoint) Coordinates() Coordinates {
	return Coordinates{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Attribute returns the named attribute or an empty string.
func (p LocatedPoint) Attribute(name string) string {
	if p.Attributes == nil {
		return ""
	}

	return p.Attributes[name]
}
