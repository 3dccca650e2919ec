package fixedexpense

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/utils"
	"github.com/smartspend/smartspend/pkg/ledger"
)

// StampStore records when the monthly check last ran. A zero time means the
// check has never run.
type StampStore interface {
	LastCheck() (time.Time, error)
	SetLastCheck(t time.Time) error
}

// Persister flushes the current state to durable storage. The engine persists
// the generated items before stamping the check, so a persistence failure
// leaves the stamp untouched and the next run retries.
type Persister interface {
	PersistNow(ctx context.Context) error
}

// Engine materializes active templates into the current month's ledger bucket
// at most once per calendar month.
type Engine struct {
	templates *TemplateStore
	ledger    *ledger.Store
	stamps    StampStore
	persister Persister
	clock     utils.Clock
}

func NewEngine(templates *TemplateStore, store *ledger.Store, stamps StampStore, persister Persister, clock utils.Clock) *Engine {
	return &Engine{
		templates: templates,
		ledger:    store,
		stamps:    stamps,
		persister: persister,
		clock:     clock,
	}
}

// RunMonthlyCheck generates this month's fixed expenses if the check has not
// run yet this calendar month. Returns the number of items created. Templates
// whose description already exists as a generated item in the target bucket
// are skipped, so reruns within the same month add nothing even when the
// stamp was lost.
func (e *Engine) RunMonthlyCheck(ctx context.Context) (int, error) {
	now := e.clock.Now()

	last, err := e.stamps.LastCheck()
	if err != nil {
		return 0, fmt.Errorf("reading last check stamp: %w", err)
	}
	if !last.IsZero() && last.Year() == now.Year() && last.Month() == now.Month() {
		log.Debug("Monthly fixed-expense check already ran this month")
		return 0, nil
	}

	period := ledger.PeriodOf(now)
	generated := e.generatedDescriptions(period)

	created := 0
	for _, template := range e.templates.Active() {
		if generated[template.Description] {
			continue
		}

		day := template.DayOfMonth
		if lastDay := period.LastDay(); day > lastDay {
			day = lastDay
		}

		_, err := e.ledger.UpsertItem(period, ledger.ExpenseItem{
			Category:  template.Category,
			Name:      template.Description,
			Amount:    template.Amount,
			Type:      ledger.TypeFixed,
			Day:       &day,
			Generated: true,
		}, "")
		if err != nil {
			return created, fmt.Errorf("materializing template %q: %w", template.Description, err)
		}
		created++
	}

	if created > 0 {
		log.Infof("Generated %d fixed expense(s) for %s", created, period)
		if err := e.persister.PersistNow(ctx); err != nil {
			return created, fmt.Errorf("persisting generated fixed expenses: %w", err)
		}
	}

	if err := e.stamps.SetLastCheck(now); err != nil {
		return created, fmt.Errorf("writing last check stamp: %w", err)
	}
	return created, nil
}

func (e *Engine) generatedDescriptions(period ledger.Period) map[string]bool {
	existing := make(map[string]bool)
	for _, item := range e.ledger.QueryPeriod(period).Items {
		if item.Generated {
			existing[item.Name] = true
		}
	}
	return existing
}
