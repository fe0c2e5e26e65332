package meter

import (
	"context"
	"testing"

	"github.com/spendmeter/spendmeter/pkg/models"
)

func TestTotals(t *testing.T) {
	m := newTestMeter(t)
	ctx := context.Background()
	now := m.now()

	currentKey := now.Format(hourKeyLayout)
	datePrefix := now.Format(dayKeyLayout)

	// A second bucket earlier today, distinct from the current hour.
	otherHour := datePrefix + "-00"
	if otherHour == currentKey {
		otherHour = datePrefix + "-01"
	}

	seed := map[string]models.HourlyBucket{
		currentKey: {Cost: 0.10, Ops: 1, UpdatedAt: now},
		otherHour:  {Cost: 0.40, Ops: 2, UpdatedAt: now},
		// Shares today's date prefix but has a malformed hour suffix:
		// counted by the daily prefix match, skipped by the weekly
		// parse, and never pruned.
		datePrefix + "-xx": {Cost: 0.25, Ops: 1, UpdatedAt: now},
		// Entirely foreign key: in no aggregate at all.
		"legacy-entry": {Cost: 9.0, Ops: 1, UpdatedAt: now},
	}
	if err := writeDoc(m.cfg.HourlyPath(), seed); err != nil {
		t.Fatal(err)
	}

	totals, err := m.Totals(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if !almostEqual(totals.Hourly, 0.10) {
		t.Errorf("expected hourly 0.10, got %v", totals.Hourly)
	}
	if !almostEqual(totals.Daily, 0.75) {
		t.Errorf("expected daily 0.75, got %v", totals.Daily)
	}
	// Weekly covers at least today's parseable buckets and excludes the
	// malformed suffixes.
	if !almostEqual(totals.Weekly, 0.50) {
		t.Errorf("expected weekly 0.50, got %v", totals.Weekly)
	}
	if totals.Hour != currentKey || totals.Date != datePrefix {
		t.Errorf("unexpected keys in totals: %+v", totals)
	}
}

func TestTotalsEmptyStore(t *testing.T) {
	m := newTestMeter(t)

	totals, err := m.Totals(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if totals.Hourly != 0 || totals.Daily != 0 || totals.Weekly != 0 {
		t.Errorf("expected all-zero totals, got %+v", totals)
	}
}

func TestStats(t *testing.T) {
	m := newTestMeter(t)
	ctx := context.Background()

	if _, err := m.ApplySessionReport(ctx, "s1", 0.30); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ApplySessionReport(ctx, "s2", 0.20); err != nil {
		t.Fatal(err)
	}

	s, err := m.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Sessions != 2 {
		t.Errorf("expected 2 sessions, got %d", s.Sessions)
	}
	if s.SessionUpdates != 2 {
		t.Errorf("expected 2 session updates, got %d", s.SessionUpdates)
	}
	if !almostEqual(s.TotalCost, 0.50) {
		t.Errorf("expected total cost 0.50, got %v", s.TotalCost)
	}
	if s.HourlyBuckets < 1 {
		t.Errorf("expected at least one bucket, got %d", s.HourlyBuckets)
	}
}
