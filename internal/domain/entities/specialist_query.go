package entities

// SpecialistQuery is one browse-and-filter search. Terms are raw user input;
// RadiusMiles is kept as text because malformed radius input is not an error.
type SpecialistQuery struct {
	FreeText           string `json:"q"`
	Location           string `json:"location"`
	Institution        string `json:"institution"`
	Trials             string `json:"trials"`
	TelehealthRequired bool   `json:"telehealth"`
	AcceptingRequired  bool   `json:"accepting"`
	RadiusMiles        string `json:"radius"`
}

// SpecialistResult is a catalog record accepted by a query, with the distance
// from the search origin when a proximity search ran.
type SpecialistResult struct {
	Specialist    *Specialist `json:"specialist"`
	DistanceMiles *float64    `json:"distance_miles,omitempty"`
}

// SearchResponse is the ordered outcome of a SpecialistQuery.
type SearchResponse struct {
	Results          []SpecialistResult `json:"results"`
	Found            bool               `json:"found"`
	Origin           *Coordinate        `json:"origin,omitempty"`
	ProximityApplied bool               `json:"proximity"`
}
