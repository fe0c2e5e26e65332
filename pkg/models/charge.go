package models

import "time"

// ChargeEntry is one credited charge in the audit log.
type ChargeEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Kind      string    `json:"kind"`
	Amount    float64   `json:"amount"`
	HourKey   string    `json:"hour_key"`
	CreatedAt time.Time `json:"created_at"`
}

// ChargeQueryOpts filters audit log queries.
type ChargeQueryOpts struct {
	SessionID string
	Since     time.Time
	Limit     int
}

// ChargeStat aggregates charges by day.
type ChargeStat struct {
	Day    string  `json:"day"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}
