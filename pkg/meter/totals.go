package meter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spendmeter/spendmeter/pkg/models"
)

// Totals derives hourly, daily, and weekly spend from the hourly store.
// Nothing is mutated; the hourly lock is still taken so a partially
// written document is never read.
//
// The daily total is a pure date-prefix match and tolerates any hour
// suffix. The weekly total parses each key and silently skips keys that
// do not parse — the opposite of the pruner's keep-on-ambiguity policy.
// The asymmetry is deliberate: legacy key formats are tolerated in
// totals but never lost from the raw store.
func (m *Meter) Totals(ctx context.Context) (models.Totals, error) {
	var t models.Totals
	err := m.locks.WithLock(ctx, m.cfg.HourlyPath(), func() error {
		buckets := readDoc[models.HourlyBucket](m.cfg.HourlyPath())
		now := m.now().UTC()

		t.Hour = now.Format(hourKeyLayout)
		t.Date = now.Format(dayKeyLayout)
		year, week := now.ISOWeek()
		t.Week = fmt.Sprintf("%d-W%02d", year, week)

		t.Hourly = buckets[t.Hour].Cost

		for key, b := range buckets {
			if strings.HasPrefix(key, t.Date) {
				t.Daily += b.Cost
			}
			ts, err := time.Parse(hourKeyLayout, key)
			if err != nil {
				continue
			}
			y, w := ts.ISOWeek()
			if y == year && w == week {
				t.Weekly += b.Cost
			}
		}

		t.Daily = round(t.Daily, m.cfg.Precision)
		t.Weekly = round(t.Weekly, m.cfg.Precision)
		return nil
	})
	return t, err
}

// Stats summarizes both stores without mutating them. Locks are taken in
// the canonical order: session ledger first, hourly store nested.
func (m *Meter) Stats(ctx context.Context) (models.StoreStats, error) {
	var s models.StoreStats
	err := m.locks.WithLock(ctx, m.cfg.SessionsPath(), func() error {
		sessions := readDoc[models.SessionRecord](m.cfg.SessionsPath())
		s.Sessions = len(sessions)
		for _, rec := range sessions {
			s.SessionUpdates += rec.Updates
		}

		return m.locks.WithLock(ctx, m.cfg.HourlyPath(), func() error {
			buckets := readDoc[models.HourlyBucket](m.cfg.HourlyPath())
			s.HourlyBuckets = len(buckets)
			for key, b := range buckets {
				s.TotalCost += b.Cost
				if b.Migrated {
					s.MigratedBuckets++
				}
				if s.OldestHour == "" || key < s.OldestHour {
					s.OldestHour = key
				}
				if key > s.NewestHour {
					s.NewestHour = key
				}
			}
			s.TotalCost = round(s.TotalCost, m.cfg.Precision)
			return nil
		})
	})
	return s, err
}
