package ingest

// Canonical field names produced by the default schemas.
const (
	FieldID          = "id"
	FieldCoordinates = "coordinates"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldUnit        = "unit"
	FieldFleet       = "fleet"
	FieldAddress     = "address"
)

// Dataset names used in logs, metrics and diagnostics.
const (
	DatasetCustomers   = "customers"
	DatasetTechnicians = "technicians"
)

// Schema describes how to find the fields of one dataset.
type Schema struct {
	Dataset     string
	ID          SynonymGroup
	Coordinates SynonymGroup   // Coordinates is a combined "lat, lon" column; tried first.
	Latitude    SynonymGroup   // Latitude is used when no combined column exists.
	Longitude   SynonymGroup   // Longitude is used when no combined column exists.
	Attributes  []SynonymGroup // Attributes are optional display fields copied onto points.
}

var (
	coordinatesGroup = SynonymGroup{
		Field: FieldCoordinates,
		Synonyms: []string{
			"latitude longitude", "lat long", "lat lon", "lat lng",
			"latlon", "latlong", "coordenadas", "coordenada", "coordinates",
		},
		Optional: true,
	}
	latitudeGroup  = SynonymGroup{Field: FieldLatitude, Synonyms: []string{"lat"}}
	longitudeGroup = SynonymGroup{Field: FieldLongitude, Synonyms: []string{"lon", "long", "lng"}}
	addressGroup   = SynonymGroup{Field: FieldAddress, Synonyms: []string{"endereco", "address"}, Optional: true}
)

// CustomerSchema returns the default customer spreadsheet layout.
func CustomerSchema() Schema {
	return Schema{
		Dataset:     DatasetCustomers,
		ID:          SynonymGroup{Field: FieldID, Synonyms: []string{"cliente", "empresa", "nome"}},
		Coordinates: coordinatesGroup,
		Latitude:    latitudeGroup,
		Longitude:   longitudeGroup,
		Attributes: []SynonymGroup{
			{Field: FieldUnit, Synonyms: []string{"unidade"}, Optional: true},
			{Field: FieldFleet, Synonyms: []string{"frota"}, Optional: true},
			addressGroup,
		},
	}
}

// TechnicianSchema returns the default technician spreadsheet layout.
func TechnicianSchema() Schema {
	return Schema{
		Dataset:     DatasetTechnicians,
		ID:          SynonymGroup{Field: FieldID, Synonyms: []string{"nome", "tecnico"}},
		Coordinates: coordinatesGroup,
		Latitude:    latitudeGroup,
		Longitude:   longitudeGroup,
		Attributes:  []SynonymGroup{addressGroup},
	}
}
