package service

import (
	"github.com/UnknownOlympus/meridian/internal/ingest"
	"github.com/UnknownOlympus/meridian/internal/models"
)

// Snapshot is one immutable view of both datasets. Queries never modify it;
// Filter returns a new snapshot.
type Snapshot struct {
	Customers   []models.LocatedPoint
	Technicians []models.LocatedPoint
	Rejected    []ingest.RowError
}

// Filter selects a subset of a snapshot. Empty fields select everything.
type Filter struct {
	Customers   []string // customer ids
	Units       []string // customer unit names
	Technicians []string // technician ids
}

// Filter applies f and returns a new snapshot sharing the rejected rows.
func (s *Snapshot) Filter(f Filter) *Snapshot {
	customers := ingest.FilterByID(s.Customers, f.Customers)
	customers = ingest.FilterByAttribute(customers, ingest.FieldUnit, f.Units)

	return &Snapshot{
		Customers:   customers,
		Technicians: ingest.FilterByID(s.Technicians, f.Technicians),
		Rejected:    s.Rejected,
	}
}

// Summary holds the headline counts of a snapshot.
type Summary struct {
	Customers   int `json:"customers"`
	Technicians int `json:"technicians"`
	Units       int `json:"units"`
	Rejected    int `json:"rejected_rows"`
}
