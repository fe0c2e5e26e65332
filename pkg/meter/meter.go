// Package meter is the session-delta cost-crediting engine: the session
// ledger, the canonical hourly cost store, the lock ordering between
// them, on-demand aggregation, retention pruning, and legacy migration.
package meter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spendmeter/spendmeter/pkg/config"
	"github.com/spendmeter/spendmeter/pkg/lockfile"
	"github.com/spendmeter/spendmeter/pkg/models"
)

// hourKeyLayout identifies one calendar hour, minute and second truncated.
const hourKeyLayout = "2006-01-02-15"

// dayKeyLayout is the date prefix shared by all hour keys of one day.
const dayKeyLayout = "2006-01-02"

// ErrNotConfirmed is returned by Reset when the caller did not confirm.
var ErrNotConfirmed = errors.New("reset requires explicit confirmation")

// Meter coordinates the two shared documents. Each operation loads,
// mutates, and persists the relevant document under its advisory lock;
// no state is held between calls.
type Meter struct {
	cfg   *config.Config
	locks *lockfile.Manager

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Meter over the configured data directory.
func New(cfg *config.Config) *Meter {
	return &Meter{
		cfg:   cfg,
		locks: lockfile.New(cfg.LockTimeout),
		now:   time.Now,
	}
}

// ApplySessionReport records a session's cumulative cost and credits the
// positive delta against the last accepted figure to the current hour
// bucket. Replaying the same report credits nothing. A report lower than
// the last accepted figure is treated as a fresh session: the baseline is
// reset to the reported value, nothing is credited, and 0 is returned.
//
// Lock order: the session-ledger lock is held across the nested
// hourly-store acquisition and released after it.
func (m *Meter) ApplySessionReport(ctx context.Context, sessionID string, reported float64) (float64, error) {
	if sessionID == "" {
		return 0, errors.New("session id required")
	}
	if reported < 0 {
		return 0, fmt.Errorf("cumulative cost must be non-negative, got %v", reported)
	}

	var credited float64
	err := m.locks.WithLock(ctx, m.cfg.SessionsPath(), func() error {
		sessions := readDoc[models.SessionRecord](m.cfg.SessionsPath())
		now := m.now().UTC()

		rec := sessions[sessionID]
		delta := round(reported-rec.LastCost, m.cfg.Precision)

		switch {
		case delta > 0:
			// Nested hourly lock; released before the sessions
			// document is written. A crash in between can leave the
			// credit applied but the baseline not advanced — an
			// accepted failure mode of the two-document design.
			if err := m.creditCurrentHour(ctx, delta); err != nil {
				return err
			}
			credited = delta
			rec.LastCost = reported
			rec.Updates++
			rec.UpdatedAt = now
			sessions[sessionID] = rec

		case delta == 0:
			// Idempotent replay: no credit, no baseline change.
			if pruneSessions(sessions, now, m.cfg.SessionTTL) == 0 {
				return nil
			}
			return writeDoc(m.cfg.SessionsPath(), sessions)

		default:
			// The caller's counter went backwards (identifier reuse
			// or an external reset). Contain the anomaly: restart
			// the session from the reported value, credit nothing.
			sessions[sessionID] = models.SessionRecord{
				LastCost:  reported,
				Updates:   0,
				UpdatedAt: now,
			}
		}

		pruneSessions(sessions, now, m.cfg.SessionTTL)
		return writeDoc(m.cfg.SessionsPath(), sessions)
	})
	if err != nil {
		return 0, err
	}
	return credited, nil
}

// RecordRaw credits an amount directly into the current hour bucket,
// bypassing session delta tracking. Only the hourly lock is taken.
func (m *Meter) RecordRaw(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", amount)
	}
	return m.creditCurrentHour(ctx, round(amount, m.cfg.Precision))
}

// creditCurrentHour adds amount to the current hour's bucket under the
// hourly-store lock and runs retention pruning on the same pass. It never
// decides whether to credit; that decision belongs to the session ledger
// (or to RecordRaw's caller).
func (m *Meter) creditCurrentHour(ctx context.Context, amount float64) error {
	return m.locks.WithLock(ctx, m.cfg.HourlyPath(), func() error {
		buckets := readDoc[models.HourlyBucket](m.cfg.HourlyPath())
		now := m.now().UTC()
		key := now.Format(hourKeyLayout)

		b := buckets[key]
		b.Cost = round(b.Cost+amount, m.cfg.Precision)
		b.Ops++
		b.UpdatedAt = now
		buckets[key] = b

		pruneBuckets(buckets, now, m.cfg.RetentionDays)
		return writeDoc(m.cfg.HourlyPath(), buckets)
	})
}

// pruneBuckets drops buckets older than the retention window. Keys that
// fail to parse are kept: losing raw data to a malformed or legacy key
// format is worse than carrying it.
func pruneBuckets(buckets map[string]models.HourlyBucket, now time.Time, retentionDays int) int {
	cutoff := now.AddDate(0, 0, -retentionDays)
	dropped := 0
	for key := range buckets {
		ts, err := time.Parse(hourKeyLayout, key)
		if err != nil {
			continue
		}
		if ts.Before(cutoff) {
			delete(buckets, key)
			dropped++
		}
	}
	return dropped
}

// pruneSessions drops session records inactive longer than ttl.
func pruneSessions(sessions map[string]models.SessionRecord, now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)
	dropped := 0
	for id, rec := range sessions {
		if rec.UpdatedAt.Before(cutoff) {
			delete(sessions, id)
			dropped++
		}
	}
	return dropped
}

// CurrentHourKey returns the bucket key for the current wall-clock hour.
func (m *Meter) CurrentHourKey() string {
	return m.now().UTC().Format(hourKeyLayout)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
