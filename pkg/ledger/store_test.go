package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) *int {
	return &d
}

func TestStore_UpsertItem(t *testing.T) {
	t.Run("should insert a valid item and recompute the total", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)

		// when
		stored, err := store.UpsertItem(period, ExpenseItem{
			Category: "Food",
			Name:     "Lunch",
			Amount:   12000,
			Type:     TypeVariable,
			Day:      day(5),
		}, "")

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)

		bucket := store.QueryPeriod(period)
		assert.Len(t, bucket.Items, 1)
		assert.Equal(t, int64(12000), bucket.Total)
	})

	t.Run("should reject a non-positive amount without changing state", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)

		// when
		_, err := store.UpsertItem(period, ExpenseItem{
			Category: "Food",
			Name:     "Lunch",
			Amount:   0,
			Type:     TypeVariable,
		}, "")

		// then
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		store := NewStore()

		_, err := store.UpsertItem(NewPeriod(2025, time.March), ExpenseItem{
			Category: "Food",
			Name:     "   ",
			Amount:   5000,
			Type:     TypeVariable,
		}, "")

		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("should move an edited item to a different period without duplication", func(t *testing.T) {
		store := NewStore()
		march := NewPeriod(2025, time.March)
		april := NewPeriod(2025, time.April)

		stored, err := store.UpsertItem(march, ExpenseItem{
			Category: "Food", Name: "Lunch", Amount: 12000, Type: TypeVariable, Day: day(31),
		}, "")
		require.NoError(t, err)

		// when: the edit changes the date into April
		moved, err := store.UpsertItem(april, ExpenseItem{
			Category: "Food", Name: "Lunch", Amount: 12000, Type: TypeVariable, Day: day(1),
		}, stored.ID)

		// then
		require.NoError(t, err)
		assert.Equal(t, stored.ID, moved.ID)
		assert.Empty(t, store.QueryPeriod(march).Items)
		assert.Len(t, store.QueryPeriod(april).Items, 1)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("should keep the id when editing in place", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)

		stored, _ := store.UpsertItem(period, ExpenseItem{
			Category: "Food", Name: "Lunch", Amount: 12000, Type: TypeVariable,
		}, "")

		updated, err := store.UpsertItem(period, ExpenseItem{
			Category: "Food", Name: "Dinner", Amount: 20000, Type: TypeVariable,
		}, stored.ID)

		require.NoError(t, err)
		assert.Equal(t, stored.ID, updated.ID)
		assert.Equal(t, int64(20000), store.QueryPeriod(period).Total)
	})
}

func TestStore_DeleteItem(t *testing.T) {
	t.Run("should delete an item and drop it from the total", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)
		stored, _ := store.UpsertItem(period, ExpenseItem{
			Category: "Food", Name: "Lunch", Amount: 12000, Type: TypeVariable, Day: day(5),
		}, "")

		// when
		removed := store.DeleteItem(stored.ID)

		// then
		assert.True(t, removed)
		bucket := store.QueryPeriod(period)
		assert.Empty(t, bucket.Items)
		assert.Equal(t, int64(0), bucket.Total)
	})

	t.Run("should be a no-op for an unknown id", func(t *testing.T) {
		store := NewStore()

		removed := store.DeleteItem("does-not-exist")

		assert.False(t, removed)
	})
}

func TestStore_QueryPeriod(t *testing.T) {
	t.Run("should return an empty bucket for an unknown period", func(t *testing.T) {
		store := NewStore()

		bucket := store.QueryPeriod(NewPeriod(2030, time.January))

		assert.NotNil(t, bucket.Items)
		assert.Empty(t, bucket.Items)
		assert.Equal(t, int64(0), bucket.Total)
	})

	t.Run("should order items by day with nil days last", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "A", Name: "undated", Amount: 1, Type: TypeVariable}, "")
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "A", Name: "late", Amount: 1, Type: TypeVariable, Day: day(20)}, "")
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "A", Name: "early", Amount: 1, Type: TypeVariable, Day: day(3)}, "")

		bucket := store.QueryPeriod(period)

		require.Len(t, bucket.Items, 3)
		assert.Equal(t, "early", bucket.Items[0].Name)
		assert.Equal(t, "late", bucket.Items[1].Name)
		assert.Equal(t, "undated", bucket.Items[2].Name)
	})

	t.Run("should keep insertion order for same-day items across repeated queries", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "A", Name: "first", Amount: 1, Type: TypeVariable, Day: day(10)}, "")
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "A", Name: "second", Amount: 1, Type: TypeVariable, Day: day(10)}, "")

		for i := 0; i < 3; i++ {
			bucket := store.QueryPeriod(period)
			assert.Equal(t, "first", bucket.Items[0].Name)
			assert.Equal(t, "second", bucket.Items[1].Name)
		}
	})

	t.Run("should always recompute the total from the item list", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)
		amounts := []int64{12000, 4500, 38000}
		var want int64
		for _, amount := range amounts {
			_, err := store.UpsertItem(period, ExpenseItem{
				Category: "Food", Name: "item", Amount: amount, Type: TypeVariable,
			}, "")
			require.NoError(t, err)
			want += amount
			assert.Equal(t, want, store.QueryPeriod(period).Total)
		}
	})
}

func TestStore_RenameCategory(t *testing.T) {
	store := NewStore()
	march := NewPeriod(2025, time.March)
	april := NewPeriod(2025, time.April)
	_, _ = store.UpsertItem(march, ExpenseItem{Category: "Food", Name: "a", Amount: 1, Type: TypeVariable}, "")
	_, _ = store.UpsertItem(march, ExpenseItem{Category: "Food", Name: "b", Amount: 1, Type: TypeVariable}, "")
	_, _ = store.UpsertItem(april, ExpenseItem{Category: "Food", Name: "c", Amount: 1, Type: TypeVariable}, "")
	_, _ = store.UpsertItem(april, ExpenseItem{Category: "Travel", Name: "d", Amount: 1, Type: TypeVariable}, "")

	// when
	count := store.RenameCategory("Food", "Dining")

	// then
	assert.Equal(t, 3, count)
	assert.Empty(t, store.QueryRange(func(_ Period, item ExpenseItem) bool { return item.Category == "Food" }))
	assert.Len(t, store.QueryRange(func(_ Period, item ExpenseItem) bool { return item.Category == "Dining" }), 3)
	assert.Equal(t, 4, store.Len())
}

func TestStore_SnapshotReplace(t *testing.T) {
	t.Run("should round-trip through snapshot and replace", func(t *testing.T) {
		store := NewStore()
		period := NewPeriod(2025, time.March)
		_, _ = store.UpsertItem(period, ExpenseItem{Category: "Food", Name: "Lunch", Amount: 12000, Type: TypeVariable, Day: day(5)}, "")

		restored := NewStore()
		restored.Replace(store.Snapshot())

		assert.Equal(t, store.Snapshot(), restored.Snapshot())
	})

	t.Run("should drop buckets with unparseable keys", func(t *testing.T) {
		store := NewStore()

		store.Replace(map[string][]ExpenseItem{
			"not-a-period": {{ID: "x", Category: "Food", Name: "a", Amount: 1, Type: TypeVariable}},
			"2025-03":      {{ID: "y", Category: "Food", Name: "b", Amount: 1, Type: TypeVariable}},
		})

		assert.Equal(t, 1, store.Len())
	})
}

func TestParsePeriod(t *testing.T) {
	t.Run("should parse padded and unpadded months", func(t *testing.T) {
		padded, err := ParsePeriod("2025-03")
		require.NoError(t, err)
		unpadded, err := ParsePeriod("2025-3")
		require.NoError(t, err)
		assert.Equal(t, padded, unpadded)
		assert.Equal(t, "2025-03", padded.String())
	})

	t.Run("should reject malformed keys", func(t *testing.T) {
		for _, key := range []string{"", "3월", "2025-3월", "2025-13", "2025"} {
			_, err := ParsePeriod(key)
			assert.Error(t, err, "key %q", key)
		}
	})
}

func TestPeriod_LastDay(t *testing.T) {
	assert.Equal(t, 28, NewPeriod(2025, time.February).LastDay())
	assert.Equal(t, 29, NewPeriod(2024, time.February).LastDay())
	assert.Equal(t, 31, NewPeriod(2025, time.March).LastDay())
	assert.Equal(t, 30, NewPeriod(2025, time.April).LastDay())
}
