package sync

import (
	"fmt"
	"time"

	"github.com/smartspend/smartspend/internal/cache"
)

const lastCheckKey = "lastFixedExpenseCheck"

// Stamps stores the fixed-expense engine's last-check timestamp in the local
// cache as an RFC 3339 string.
type Stamps struct {
	cache *cache.Store
}

func NewStamps(store *cache.Store) *Stamps {
	return &Stamps{cache: store}
}

func (s *Stamps) LastCheck() (time.Time, error) {
	value, ok, err := s.cache.Get(lastCheckKey)
	if err != nil || !ok {
		return time.Time{}, err
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// An unreadable stamp is treated as absent; the engine's per-item
		// deduplication prevents double generation either way.
		return time.Time{}, nil
	}
	return t, nil
}

func (s *Stamps) SetLastCheck(t time.Time) error {
	if err := s.cache.Put(lastCheckKey, t.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store last check stamp: %w", err)
	}
	return nil
}
