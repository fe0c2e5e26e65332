package models

import "time"

// HourlyBucket accumulates cost for a single calendar hour. Buckets are
// created lazily on first credit and only ever grow; the sole other
// mutation is whole-bucket deletion by retention pruning.
type HourlyBucket struct {
	// Cost is the cumulative cost credited to this hour.
	Cost float64 `json:"cost"`
	// Ops counts increment operations applied to the bucket, not
	// distinct sessions.
	Ops       int       `json:"ops"`
	UpdatedAt time.Time `json:"updated_at"`
	// Migrated marks buckets synthesized from the legacy daily store.
	Migrated bool `json:"migrated,omitempty"`
}

// SessionRecord holds the last cumulative cost accepted for a session.
// It is the baseline for delta computation and is replaced wholesale on
// every accepted report.
type SessionRecord struct {
	LastCost  float64   `json:"last_cost"`
	Updates   int       `json:"updates"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DailyBucket is the legacy daily-granularity record, consumed only by
// the migrator.
type DailyBucket struct {
	Cost      float64   `json:"cost"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Totals holds the derived hourly/daily/weekly spend for the current
// moment. Never persisted; recomputed on every query.
type Totals struct {
	Hour   string  `json:"hour"`
	Date   string  `json:"date"`
	Week   string  `json:"week"`
	Hourly float64 `json:"hourly"`
	Daily  float64 `json:"daily"`
	Weekly float64 `json:"weekly"`
}

// StoreStats summarizes both stores without mutating them.
type StoreStats struct {
	HourlyBuckets   int     `json:"hourly_buckets"`
	MigratedBuckets int     `json:"migrated_buckets"`
	TotalCost       float64 `json:"total_cost"`
	OldestHour      string  `json:"oldest_hour,omitempty"`
	NewestHour      string  `json:"newest_hour,omitempty"`
	Sessions        int     `json:"sessions"`
	SessionUpdates  int     `json:"session_updates"`
}
