package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store is the authoritative in-memory collection of all expense items,
// organized by period. It is owned by the sync coordinator; every other
// component mutates it through these operations only, so bucket totals can
// always be recomputed from the item lists.
type Store struct {
	mu      sync.RWMutex
	periods map[Period][]ExpenseItem
}

func NewStore() *Store {
	return &Store{periods: make(map[Period][]ExpenseItem)}
}

// UpsertItem validates item and inserts it into the period bucket. When
// editingID is set, the item is first removed from whichever bucket holds it,
// so an edit that changes the date moves the item between periods. Without an
// editingID a fresh id is assigned.
func (s *Store) UpsertItem(period Period, item ExpenseItem, editingID string) (ExpenseItem, error) {
	if err := item.Validate(); err != nil {
		return ExpenseItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if editingID != "" {
		s.removeLocked(editingID)
		item.ID = editingID
	} else {
		item.ID = uuid.NewString()
	}

	s.periods[period] = append(s.periods[period], item)
	return item, nil
}

// DeleteItem removes the item with the given id from whichever bucket holds
// it. Deleting an unknown id is a no-op; the return value reports whether
// anything was removed.
func (s *Store) DeleteItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Store) removeLocked(id string) bool {
	for period, items := range s.periods {
		for idx, item := range items {
			if item.ID == id {
				s.periods[period] = append(items[:idx:idx], items[idx+1:]...)
				if len(s.periods[period]) == 0 {
					delete(s.periods, period)
				}
				return true
			}
		}
	}
	return false
}

// QueryPeriod returns a copy of the period's bucket with its total freshly
// computed. Unknown periods yield an empty bucket, never nil.
func (s *Store) QueryPeriod(period Period) Bucket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ExpenseItem, len(s.periods[period]))
	copy(items, s.periods[period])
	sortItems(items)

	return Bucket{Items: items, Total: sumAmounts(items)}
}

// QueryRange returns copies of all items across every period matching the
// predicate.
func (s *Store) QueryRange(predicate func(Period, ExpenseItem) bool) []ExpenseItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]ExpenseItem, 0)
	for period, items := range s.periods {
		for _, item := range items {
			if predicate(period, item) {
				matched = append(matched, item)
			}
		}
	}
	return matched
}

// Periods returns every non-empty period in chronological order.
func (s *Store) Periods() []Period {
	s.mu.RLock()
	defer s.mu.RUnlock()

	periods := make([]Period, 0, len(s.periods))
	for period := range s.periods {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(a, b int) bool { return periods[a].Before(periods[b]) })
	return periods
}

// RenameCategory rewrites every item referencing oldName to newName and
// returns the number of rewritten items.
func (s *Store) RenameCategory(oldName, newName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, items := range s.periods {
		for idx := range items {
			if items[idx].Category == oldName {
				items[idx].Category = newName
				count++
			}
		}
	}
	return count
}

// Snapshot returns a deep copy of the store keyed by canonical period strings.
func (s *Store) Snapshot() map[string][]ExpenseItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string][]ExpenseItem, len(s.periods))
	for period, items := range s.periods {
		copied := make([]ExpenseItem, len(items))
		copy(copied, items)
		snapshot[period.String()] = copied
	}
	return snapshot
}

// Replace swaps the entire store content for the given snapshot. Buckets with
// unparseable keys are dropped with a warning; the sync coordinator migrates
// legacy keys before calling Replace.
func (s *Store) Replace(snapshot map[string][]ExpenseItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.periods = make(map[Period][]ExpenseItem, len(snapshot))
	for key, items := range snapshot {
		period, err := ParsePeriod(key)
		if err != nil {
			log.Warnf("dropping bucket with unparseable period key %q (%d items)", key, len(items))
			continue
		}
		if len(items) == 0 {
			continue
		}
		copied := make([]ExpenseItem, len(items))
		copy(copied, items)
		s.periods[period] = append(s.periods[period], copied...)
	}
}

// Len returns the total number of items across all periods.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, items := range s.periods {
		total += len(items)
	}
	return total
}
