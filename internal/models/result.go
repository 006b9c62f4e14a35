package models

// MatchResult pairs a customer with its nearest technician.
// TechnicianID and DistanceKm are nil when no technician was available.
// EstimatedHours is set only when an average speed was supplied.
type MatchResult struct {
	CustomerID     string   `json:"customer_id"`
	TechnicianID   *string  `json:"technician_id"`
	DistanceKm     *float64 `json:"distance_km"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

// Matched reports whether a technician was assigned.
func (m MatchResult) Matched() bool {
	return m.TechnicianID != nil
}

// CoveredCustomer is a single entry of a coverage query. It carries the
// customer's position and display attributes so the row can be shown on a map.
type CoveredCustomer struct {
	CustomerID string            `json:"customer_id"`
	DistanceKm float64           `json:"distance_km"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// CoverageResult lists the customers within RadiusKm of a technician,
// nearest first. Position is the technician's location, the centre of the
// coverage circle.
type CoverageResult struct {
	TechnicianID string            `json:"technician_id"`
	Position     Coordinates       `json:"position"`
	RadiusKm     float64           `json:"radius_km"`
	Customers    []CoveredCustomer `json:"customers"`
}

// CustomerIDs returns the covered customer ids in result order.
func (c CoverageResult) CustomerIDs() []string {
	ids := make([]string, 0, len(c.Customers))
	for _, cc := range c.Customers {
		ids = append(ids, cc.CustomerID)
	}

	return ids
}

// MapView holds the points to draw on a map. Center is the mean customer
// position and is nil when there are no customers.
type MapView struct {
	Center      *Coordinates   `json:"center"`
	Customers   []LocatedPoint `json:"customers"`
	Technicians []LocatedPoint `json:"technicians"`
}
