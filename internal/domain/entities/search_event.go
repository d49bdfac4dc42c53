package entities

import (
	"time"
)

// SearchEvent represents a single specialist search for analytics.
type SearchEvent struct {
	ID               string    `json:"id" db:"id"`
	Query            string    `json:"query" db:"query"`
	LocationTerm     string    `json:"location_term" db:"location_term"`
	ProximityApplied bool      `json:"proximity_applied" db:"proximity_applied"`
	RadiusMiles      float64   `json:"radius_miles" db:"radius_miles"`
	ResultCount      int       `json:"result_count" db:"result_count"`
	LatencyMs        int       `json:"latency_ms" db:"latency_ms"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
