package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smartspend/smartspend/internal/event_bus"
	"github.com/smartspend/smartspend/internal/utils"
)

var ctx = context.Background()

func newService(now time.Time) (*ServiceImpl, *Store, *event_bus.EventBus) {
	store := NewStore()
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: now}
	return NewServiceImpl(store, bus, clock), store, bus
}

func TestServiceImpl_Upsert(t *testing.T) {
	t.Run("should publish a ledger change on insert", func(t *testing.T) {
		service, _, bus := newService(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

		var mutations []event_bus.LedgerMutation
		event_bus.SubscribeTyped[event_bus.LedgerMutation](bus, event_bus.LedgerChanged,
			func(e event_bus.EventT[event_bus.LedgerMutation]) error {
				mutations = append(mutations, e.Data)
				return nil
			})

		// when
		stored, err := service.Upsert(ctx, NewPeriod(2025, time.March), ExpenseItem{
			Category: "Food", Name: "Lunch", Amount: 12000, Type: TypeVariable, Day: day(5),
		}, "")

		// then
		require.NoError(t, err)
		require.Len(t, mutations, 1)
		assert.Equal(t, "create", mutations[0].Op)
		assert.Equal(t, stored.ID, mutations[0].ItemID)
		assert.Equal(t, "2025-03", mutations[0].Period)
	})

	t.Run("should not publish when validation fails", func(t *testing.T) {
		service, _, bus := newService(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

		published := 0
		bus.Subscribe(event_bus.LedgerChanged, func(event_bus.Event) error {
			published++
			return nil
		})

		_, err := service.Upsert(ctx, NewPeriod(2025, time.March), ExpenseItem{
			Category: "Food", Name: "", Amount: 12000, Type: TypeVariable,
		}, "")

		assert.ErrorIs(t, err, ErrEmptyName)
		assert.Equal(t, 0, published)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should not publish for a no-op delete", func(t *testing.T) {
		service, _, bus := newService(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

		published := 0
		bus.Subscribe(event_bus.LedgerChanged, func(event_bus.Event) error {
			published++
			return nil
		})

		removed := service.Delete(ctx, "missing")

		assert.False(t, removed)
		assert.Equal(t, 0, published)
	})
}

func TestServiceImpl_MonthOverview(t *testing.T) {
	service, store, _ := newService(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	_, _ = store.UpsertItem(NewPeriod(2025, time.February), ExpenseItem{Category: "Food", Name: "a", Amount: 30000, Type: TypeVariable}, "")
	_, _ = store.UpsertItem(NewPeriod(2025, time.March), ExpenseItem{Category: "Food", Name: "b", Amount: 42000, Type: TypeVariable}, "")

	overview := service.MonthOverview(ctx, NewPeriod(2025, time.March))

	assert.Equal(t, int64(42000), overview.Total)
	assert.Equal(t, int64(30000), overview.PrevTotal)
	assert.Equal(t, int64(12000), overview.Diff)
}

func TestServiceImpl_MonthOverview_JanuaryLooksAtDecember(t *testing.T) {
	service, store, _ := newService(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	_, _ = store.UpsertItem(NewPeriod(2025, time.December), ExpenseItem{Category: "Food", Name: "a", Amount: 10000, Type: TypeVariable}, "")

	overview := service.MonthOverview(ctx, NewPeriod(2026, time.January))

	assert.Equal(t, int64(10000), overview.PrevTotal)
	assert.Equal(t, int64(-10000), overview.Diff)
}

func TestServiceImpl_UpcomingFixed(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	seed := func(store *Store, period Period) {
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "Bills", Name: "rent", Amount: 500000, Type: TypeFixed, Day: day(25)}, "")
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "Bills", Name: "insurance", Amount: 177450, Type: TypeFixed, Day: day(10)}, "")
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "Food", Name: "groceries", Amount: 90000, Type: TypeVariable, Day: day(20)}, "")
	}

	t.Run("current month keeps only fixed items due today or later", func(t *testing.T) {
		service, store, _ := newService(now)
		seed(store, NewPeriod(2025, time.March))

		upcoming := service.UpcomingFixed(ctx, NewPeriod(2025, time.March))

		require.Len(t, upcoming, 1)
		assert.Equal(t, "rent", upcoming[0].Name)
	})

	t.Run("future month lists every fixed item", func(t *testing.T) {
		service, store, _ := newService(now)
		seed(store, NewPeriod(2025, time.April))

		upcoming := service.UpcomingFixed(ctx, NewPeriod(2025, time.April))

		require.Len(t, upcoming, 2)
		assert.Equal(t, "insurance", upcoming[0].Name)
		assert.Equal(t, "rent", upcoming[1].Name)
	})

	t.Run("past month has nothing upcoming", func(t *testing.T) {
		service, store, _ := newService(now)
		seed(store, NewPeriod(2025, time.February))

		upcoming := service.UpcomingFixed(ctx, NewPeriod(2025, time.February))

		assert.Empty(t, upcoming)
	})
}
