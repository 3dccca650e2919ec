package ledger

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/event_bus"
	"github.com/smartspend/smartspend/internal/utils"
)

type Service interface {
	Upsert(ctx context.Context, period Period, item ExpenseItem, editingID string) (ExpenseItem, error)
	Delete(ctx context.Context, id string) bool
	GetPeriod(ctx context.Context, period Period) Bucket
	MonthOverview(ctx context.Context, period Period) Overview
	YearSummary(ctx context.Context, year int) []MonthSummary
	UpcomingFixed(ctx context.Context, period Period) []ExpenseItem
}

// Overview is the home-screen view of one month: the bucket plus the
// previous month's total and the difference.
type Overview struct {
	Period    string        `json:"period"`
	Items     []ExpenseItem `json:"items"`
	Total     int64         `json:"total"`
	PrevTotal int64         `json:"prevTotal"`
	Diff      int64         `json:"diff"`
}

type MonthSummary struct {
	Period string `json:"period"`
	Total  int64  `json:"total"`
	Count  int    `json:"count"`
}

type ServiceImpl struct {
	store *Store
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewServiceImpl(store *Store, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{store: store, bus: bus, clock: clock}
}

func (s *ServiceImpl) Upsert(ctx context.Context, period Period, item ExpenseItem, editingID string) (ExpenseItem, error) {
	stored, err := s.store.UpsertItem(period, item, editingID)
	if err != nil {
		return ExpenseItem{}, err
	}

	op := "create"
	if editingID != "" {
		op = "update"
	}
	s.publishChange(ctx, event_bus.LedgerMutation{Op: op, ItemID: stored.ID, Period: period.String()})
	return stored, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) bool {
	removed := s.store.DeleteItem(id)
	if removed {
		s.publishChange(ctx, event_bus.LedgerMutation{Op: "delete", ItemID: id})
	}
	return removed
}

func (s *ServiceImpl) GetPeriod(ctx context.Context, period Period) Bucket {
	return s.store.QueryPeriod(period)
}

func (s *ServiceImpl) MonthOverview(ctx context.Context, period Period) Overview {
	bucket := s.store.QueryPeriod(period)
	prev := s.store.QueryPeriod(period.Prev())
	return Overview{
		Period:    period.String(),
		Items:     bucket.Items,
		Total:     bucket.Total,
		PrevTotal: prev.Total,
		Diff:      bucket.Total - prev.Total,
	}
}

func (s *ServiceImpl) YearSummary(ctx context.Context, year int) []MonthSummary {
	summaries := make([]MonthSummary, 0, 12)
	for month := time.January; month <= time.December; month++ {
		period := NewPeriod(year, month)
		bucket := s.store.QueryPeriod(period)
		summaries = append(summaries, MonthSummary{
			Period: period.String(),
			Total:  bucket.Total,
			Count:  len(bucket.Items),
		})
	}
	return summaries
}

// UpcomingFixed lists the fixed expenses still due in the viewed month: every
// fixed item for a future month, none for a past month, and for the current
// month only items on or after today.
func (s *ServiceImpl) UpcomingFixed(ctx context.Context, period Period) []ExpenseItem {
	now := s.clock.Now()
	current := PeriodOf(now)

	if period.Before(current) {
		return []ExpenseItem{}
	}

	bucket := s.store.QueryPeriod(period)
	upcoming := make([]ExpenseItem, 0)
	for _, item := range bucket.Items {
		if item.Type != TypeFixed {
			continue
		}
		if period == current && (item.Day == nil || *item.Day < now.Day()) {
			continue
		}
		upcoming = append(upcoming, item)
	}
	return upcoming
}

func (s *ServiceImpl) publishChange(ctx context.Context, mutation event_bus.LedgerMutation) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.LedgerChanged, mutation)); err != nil {
		log.Errorf("failed to publish ledger change: %v", err)
	}
}
