package budget

import (
	"errors"
	"testing"

	"github.com/spendmeter/spendmeter/pkg/config"
	"github.com/spendmeter/spendmeter/pkg/models"
)

func TestEvaluate(t *testing.T) {
	e := New(config.BudgetConfig{
		Enabled: true,
		Hourly:  1.0,
		Daily:   10.0,
	})

	statuses := e.Evaluate(models.Totals{Hourly: 1.5, Daily: 4.0, Weekly: 20.0})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses (weekly unlimited), got %d", len(statuses))
	}

	hourly := statuses[0]
	if hourly.Window != "hourly" || !hourly.Exceeded || hourly.Remaining != 0 {
		t.Errorf("unexpected hourly status: %+v", hourly)
	}

	daily := statuses[1]
	if daily.Window != "daily" || daily.Exceeded {
		t.Errorf("unexpected daily status: %+v", daily)
	}
	if daily.Remaining != 6.0 {
		t.Errorf("expected 6.0 remaining, got %v", daily.Remaining)
	}
}

func TestCheck(t *testing.T) {
	e := New(config.BudgetConfig{Enabled: true, Daily: 10.0})

	if err := e.Check(models.Totals{Daily: 9.99}); err != nil {
		t.Errorf("expected under-limit check to pass, got %v", err)
	}
	if err := e.Check(models.Totals{Daily: 10.0}); !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected ErrBudgetExceeded at limit, got %v", err)
	}
}

func TestNoLimitsConfigured(t *testing.T) {
	e := New(config.BudgetConfig{Enabled: true})

	if got := e.Evaluate(models.Totals{Daily: 100}); len(got) != 0 {
		t.Errorf("expected no statuses without limits, got %d", len(got))
	}
	if err := e.Check(models.Totals{Daily: 100}); err != nil {
		t.Errorf("expected check to pass without limits, got %v", err)
	}
}
