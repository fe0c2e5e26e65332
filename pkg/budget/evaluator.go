// Package budget evaluates derived spend totals against configured
// per-window limits. It is read-only: limits are advisory, never
// enforced against the stores.
package budget

import (
	"errors"

	"github.com/spendmeter/spendmeter/pkg/config"
	"github.com/spendmeter/spendmeter/pkg/models"
)

// ErrBudgetExceeded is returned by Check when any window limit is exceeded.
var ErrBudgetExceeded = errors.New("budget exceeded")

// Status shows spend against one window's limit.
type Status struct {
	Window    string  `json:"window"`
	Limit     float64 `json:"limit"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
	Exceeded  bool    `json:"exceeded"`
}

// Evaluator checks totals against configured limits.
type Evaluator struct {
	cfg config.BudgetConfig
}

// New creates an Evaluator with the given limits.
func New(cfg config.BudgetConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate returns a status per configured window. Windows with a zero
// limit are unlimited and omitted.
func (e *Evaluator) Evaluate(t models.Totals) []Status {
	var statuses []Status
	for _, w := range []struct {
		name  string
		limit float64
		used  float64
	}{
		{"hourly", e.cfg.Hourly, t.Hourly},
		{"daily", e.cfg.Daily, t.Daily},
		{"weekly", e.cfg.Weekly, t.Weekly},
	} {
		if w.limit <= 0 {
			continue
		}
		remaining := w.limit - w.used
		if remaining < 0 {
			remaining = 0
		}
		statuses = append(statuses, Status{
			Window:    w.name,
			Limit:     w.limit,
			Used:      w.used,
			Remaining: remaining,
			Exceeded:  w.used >= w.limit,
		})
	}
	return statuses
}

// Check returns ErrBudgetExceeded if any configured limit is exceeded.
func (e *Evaluator) Check(t models.Totals) error {
	for _, s := range e.Evaluate(t) {
		if s.Exceeded {
			return ErrBudgetExceeded
		}
	}
	return nil
}
