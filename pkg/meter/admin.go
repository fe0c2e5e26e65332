package meter

import (
	"context"

	"github.com/spendmeter/spendmeter/pkg/models"
)

// MigrateLegacy converts the legacy daily-granularity store into
// synthetic hourly buckets pinned to noon of each date. Buckets that
// already exist are skipped, so running the migration twice duplicates
// nothing. Migrated buckets are flagged to stay distinguishable from
// natively hourly entries. Returns the number of buckets created.
func (m *Meter) MigrateLegacy(ctx context.Context) (int, error) {
	migrated := 0
	err := m.locks.WithLock(ctx, m.cfg.HourlyPath(), func() error {
		legacy := readDoc[models.DailyBucket](m.cfg.LegacyDailyPath())
		if len(legacy) == 0 {
			return nil
		}

		buckets := readDoc[models.HourlyBucket](m.cfg.HourlyPath())
		now := m.now().UTC()

		for date, d := range legacy {
			key := date + "-12"
			if _, exists := buckets[key]; exists {
				continue
			}
			buckets[key] = models.HourlyBucket{
				Cost:      round(d.Cost, m.cfg.Precision),
				Ops:       1,
				UpdatedAt: now,
				Migrated:  true,
			}
			migrated++
		}

		if migrated == 0 {
			return nil
		}
		return writeDoc(m.cfg.HourlyPath(), buckets)
	})
	if err != nil {
		return 0, err
	}
	return migrated, nil
}

// Reset clears all three documents. It refuses without explicit
// confirmation and takes no backup; the operation is irreversible.
// Locks are acquired in the canonical order.
func (m *Meter) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return m.locks.WithLock(ctx, m.cfg.SessionsPath(), func() error {
		err := m.locks.WithLock(ctx, m.cfg.HourlyPath(), func() error {
			if err := writeDoc(m.cfg.HourlyPath(), map[string]models.HourlyBucket{}); err != nil {
				return err
			}
			return writeDoc(m.cfg.LegacyDailyPath(), map[string]models.DailyBucket{})
		})
		if err != nil {
			return err
		}
		return writeDoc(m.cfg.SessionsPath(), map[string]models.SessionRecord{})
	})
}
