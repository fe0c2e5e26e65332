package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spendmeter/spendmeter/pkg/config"
	"github.com/spendmeter/spendmeter/pkg/models"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := New(config.AuditConfig{Enabled: true, RetentionDays: 90},
		filepath.Join(t.TempDir(), "charges.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndQuery(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entries := []models.ChargeEntry{
		{SessionID: "s1", Kind: "session", Amount: 0.05, HourKey: "2026-08-23-14", CreatedAt: now},
		{SessionID: "s1", Kind: "session", Amount: 0.07, HourKey: "2026-08-23-14", CreatedAt: now.Add(time.Minute)},
		{Kind: "raw", Amount: 1.0, HourKey: "2026-08-23-15", CreatedAt: now.Add(time.Hour)},
	}
	for _, e := range entries {
		if err := l.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := l.Query(ctx, models.ChargeQueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Kind != "raw" {
		t.Errorf("expected newest entry first, got %+v", all[0])
	}
	if all[0].ID == "" {
		t.Error("expected generated id")
	}

	bySession, err := l.Query(ctx, models.ChargeQueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySession) != 2 {
		t.Fatalf("expected 2 session entries, got %d", len(bySession))
	}

	since, err := l.Query(ctx, models.ChargeQueryOpts{Since: now.Add(30 * time.Minute)})
	if err != nil {
		t.Fatal(err)
	}
	if len(since) != 1 {
		t.Fatalf("expected 1 entry since cutoff, got %d", len(since))
	}
}

func TestStats(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, amount := range []float64{0.10, 0.20} {
		if err := l.Record(ctx, models.ChargeEntry{
			Kind: "raw", Amount: amount, HourKey: "x", CreatedAt: now,
		}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := l.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 day of stats, got %d", len(stats))
	}
	if stats[0].Count != 2 {
		t.Errorf("expected 2 charges, got %d", stats[0].Count)
	}
	if diff := stats[0].Amount - 0.30; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected 0.30 total, got %v", stats[0].Amount)
	}
}

func TestCleanup(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := l.Record(ctx, models.ChargeEntry{
		Kind: "raw", Amount: 1, HourKey: "x", CreatedAt: now.AddDate(0, 0, -120),
	}); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(ctx, models.ChargeEntry{
		Kind: "raw", Amount: 1, HourKey: "x", CreatedAt: now,
	}); err != nil {
		t.Fatal(err)
	}

	n, err := l.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 entry cleaned up, got %d", n)
	}

	remaining, err := l.Query(ctx, models.ChargeQueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 entry remaining, got %d", len(remaining))
	}
}

func TestReset(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	if err := l.Record(ctx, models.ChargeEntry{
		Kind: "raw", Amount: 1, HourKey: "x", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	if err := l.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	entries, err := l.Query(ctx, models.ChargeQueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty log after reset, got %d entries", len(entries))
	}
}
