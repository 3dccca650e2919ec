package sync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smartspend/smartspend/internal/cache"
	"github.com/smartspend/smartspend/internal/event_bus"
	"github.com/smartspend/smartspend/internal/utils"
	"github.com/smartspend/smartspend/pkg/category"
	"github.com/smartspend/smartspend/pkg/fixedexpense"
	"github.com/smartspend/smartspend/pkg/ledger"
)

var ctx = context.Background()

const testUserID = "user-1"

func testCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type fixture struct {
	coordinator *Coordinator
	ledger      *ledger.Store
	ledgerSvc   ledger.Service
	categories  *category.Registry
	templates   *fixedexpense.TemplateStore
	cache       *cache.Store
	remote      *StubRemoteStore
	bus         *event_bus.EventBus
	clock       *utils.MockClock
}

func newFixture(t *testing.T, cacheStore *cache.Store, remote RemoteStore, userID string) *fixture {
	t.Helper()
	clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	bus := event_bus.NewEventBus()
	store := ledger.NewStore()
	registry := category.NewRegistry(store)
	templates := fixedexpense.NewTemplateStore(clock)

	f := &fixture{
		ledger:     store,
		ledgerSvc:  ledger.NewServiceImpl(store, bus, clock),
		categories: registry,
		templates:  templates,
		cache:      cacheStore,
		bus:        bus,
		clock:      clock,
	}
	if stub, ok := remote.(*StubRemoteStore); ok {
		f.remote = stub
	}
	f.coordinator = NewCoordinator(store, registry, templates, cacheStore, remote, bus, clock, userID, 2*time.Second)
	return f
}

func (f *fixture) addExpense(t *testing.T, name string, amount int64) {
	t.Helper()
	_, err := f.ledgerSvc.Upsert(ctx, ledger.NewPeriod(2025, time.March), ledger.ExpenseItem{
		Category: "식비", Name: name, Amount: amount, Type: ledger.TypeVariable,
	}, "")
	require.NoError(t, err)
}

func TestCoordinator_LocalOnly(t *testing.T) {
	t.Run("should persist every mutation and restore it on the next start", func(t *testing.T) {
		cacheStore := testCache(t)

		f := newFixture(t, cacheStore, nil, "")
		require.NoError(t, f.coordinator.Start(ctx))
		f.addExpense(t, "점심", 12000)
		require.NoError(t, f.coordinator.Flush(ctx))

		// when: a fresh process starts against the same cache
		restarted := newFixture(t, cacheStore, nil, "")
		require.NoError(t, restarted.coordinator.Start(ctx))

		// then
		bucket := restarted.ledger.QueryPeriod(ledger.NewPeriod(2025, time.March))
		require.Len(t, bucket.Items, 1)
		assert.Equal(t, "점심", bucket.Items[0].Name)
	})

	t.Run("should migrate legacy cache keys on load and rewrite the cache", func(t *testing.T) {
		cacheStore := testCache(t)
		legacy := `{"ledger":{"3월":[{"id":"a","category":"식비","name":"점심","amount":12000,"type":"variable","day":null}]}}`
		require.NoError(t, cacheStore.Put(budgetDataKey, legacy))

		f := newFixture(t, cacheStore, nil, "")
		require.NoError(t, f.coordinator.Start(ctx))

		bucket := f.ledger.QueryPeriod(ledger.NewPeriod(2025, time.March))
		require.Len(t, bucket.Items, 1)

		raw, ok, err := cacheStore.Get(budgetDataKey)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, raw, `"2025-03"`)
		assert.NotContains(t, raw, `"3월"`)
	})
}

func TestCoordinator_Start(t *testing.T) {
	t.Run("should apply the remote document over an empty cache", func(t *testing.T) {
		remote := NewStubRemoteStore()
		remote.docs[testUserID] = Document{
			Ledger: map[string][]ledger.ExpenseItem{
				"2025-02": {{ID: "r1", Category: "교통", Name: "버스", Amount: 55000, Type: ledger.TypeVariable}},
			},
			Categories: []category.Category{{ID: "c1", Name: "교통"}},
		}

		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))

		assert.Len(t, f.ledger.QueryPeriod(ledger.NewPeriod(2025, time.February)).Items, 1)
		assert.Len(t, f.categories.All(), 1)
		assert.Equal(t, StatusSynced, f.coordinator.Report().Status)
	})

	t.Run("should upload local state when the remote document is absent", func(t *testing.T) {
		cacheStore := testCache(t)

		seeded := newFixture(t, cacheStore, nil, "")
		require.NoError(t, seeded.coordinator.Start(ctx))
		seeded.addExpense(t, "점심", 12000)
		require.NoError(t, seeded.coordinator.Flush(ctx))

		// when: the same cache is started with a fresh remote account
		remote := NewStubRemoteStore()
		f := newFixture(t, cacheStore, remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))

		// then
		doc, ok := remote.Stored(testUserID)
		require.True(t, ok)
		assert.Len(t, doc.Ledger["2025-03"], 1)
		assert.False(t, f.coordinator.Report().Dirty)
	})

	t.Run("should mark legacy remote keys dirty and push the canonical form on flush", func(t *testing.T) {
		remote := NewStubRemoteStore()
		remote.docs[testUserID] = Document{
			Ledger: map[string][]ledger.ExpenseItem{
				"3월": {{ID: "r1", Category: "식비", Name: "점심", Amount: 12000, Type: ledger.TypeVariable}},
			},
		}

		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))

		// the canonical bucket is live in memory and the state needs a push
		assert.Len(t, f.ledger.QueryPeriod(ledger.NewPeriod(2025, time.March)).Items, 1)
		assert.True(t, f.coordinator.Report().Dirty)

		// when
		require.NoError(t, f.coordinator.Flush(ctx))

		// then: the remote copy now holds canonical keys only
		doc, ok := remote.Stored(testUserID)
		require.True(t, ok)
		assert.Contains(t, doc.Ledger, "2025-03")
		assert.NotContains(t, doc.Ledger, "3월")
		assert.False(t, f.coordinator.Report().Dirty)
	})

	t.Run("should keep serving from the cache when the remote load fails", func(t *testing.T) {
		cacheStore := testCache(t)
		seeded := newFixture(t, cacheStore, nil, "")
		require.NoError(t, seeded.coordinator.Start(ctx))
		seeded.addExpense(t, "점심", 12000)
		require.NoError(t, seeded.coordinator.Flush(ctx))

		remote := NewStubRemoteStore()
		remote.LoadErr = errors.New("network down")

		f := newFixture(t, cacheStore, remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))

		assert.Len(t, f.ledger.QueryPeriod(ledger.NewPeriod(2025, time.March)).Items, 1)
		assert.Equal(t, StatusError, f.coordinator.Report().Status)
	})
}

func TestCoordinator_RemotePush(t *testing.T) {
	pushed := Document{
		Ledger: map[string][]ledger.ExpenseItem{
			"2025-03": {{ID: "r1", Category: "식비", Name: "다른기기", Amount: 9000, Type: ledger.TypeVariable}},
		},
	}

	t.Run("should ignore a push inside the grace window", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))
		f.addExpense(t, "점심", 12000)

		// when: the push lands right after startup
		remote.Push(testUserID, pushed)

		// then: the fresh local edit survives
		bucket := f.ledger.QueryPeriod(ledger.NewPeriod(2025, time.March))
		require.Len(t, bucket.Items, 1)
		assert.Equal(t, "점심", bucket.Items[0].Name)
	})

	t.Run("should apply a push after the grace window", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))

		f.clock.SetNow(f.clock.Now().Add(5 * time.Second))

		// when
		remote.Push(testUserID, pushed)

		// then
		bucket := f.ledger.QueryPeriod(ledger.NewPeriod(2025, time.March))
		require.Len(t, bucket.Items, 1)
		assert.Equal(t, "다른기기", bucket.Items[0].Name)
	})

	t.Run("should not mark the state dirty while applying a push", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))
		f.clock.SetNow(f.clock.Now().Add(5 * time.Second))

		remote.Push(testUserID, pushed)

		assert.False(t, f.coordinator.Report().Dirty)
	})
}

func TestCoordinator_SyncNow(t *testing.T) {
	t.Run("should push the current state and clear the dirty flag", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))
		f.addExpense(t, "점심", 12000)
		require.True(t, f.coordinator.Report().Dirty)

		// when
		require.NoError(t, f.coordinator.SyncNow(ctx))

		// then
		report := f.coordinator.Report()
		assert.False(t, report.Dirty)
		assert.Equal(t, StatusSynced, report.Status)
		require.NotNil(t, report.LastSynced)

		doc, ok := remote.Stored(testUserID)
		require.True(t, ok)
		assert.Len(t, doc.Ledger["2025-03"], 1)
	})

	t.Run("should keep the dirty flag and the local backup when the push fails", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))
		f.addExpense(t, "점심", 12000)
		remote.SaveErr = errors.New("quota exceeded")

		// when
		err := f.coordinator.SyncNow(ctx)

		// then
		require.Error(t, err)
		report := f.coordinator.Report()
		assert.True(t, report.Dirty)
		assert.Equal(t, StatusError, report.Status)
		assert.Contains(t, report.LastError, "quota exceeded")

		raw, ok, cacheErr := f.cache.Get(budgetDataKey)
		require.NoError(t, cacheErr)
		require.True(t, ok)
		assert.Contains(t, raw, "점심")
	})

	t.Run("should wipe memory, cache and remote on reset", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))
		f.addExpense(t, "점심", 12000)
		_, err := f.categories.Add("식비")
		require.NoError(t, err)
		require.NoError(t, f.coordinator.SyncNow(ctx))

		// when
		require.NoError(t, f.coordinator.Reset(ctx))

		// then
		assert.Equal(t, 0, f.ledger.Len())
		assert.Empty(t, f.categories.All())

		doc, ok := remote.Stored(testUserID)
		require.True(t, ok)
		assert.Empty(t, doc.Ledger)
		assert.Empty(t, doc.Categories)

		raw, ok, cacheErr := f.cache.Get(budgetDataKey)
		require.NoError(t, cacheErr)
		require.True(t, ok)
		assert.NotContains(t, raw, "점심")
	})

	t.Run("should announce status transitions on the bus", func(t *testing.T) {
		remote := NewStubRemoteStore()
		f := newFixture(t, testCache(t), remote, testUserID)
		require.NoError(t, f.coordinator.Start(ctx))

		var transitions []string
		event_bus.SubscribeTyped[event_bus.SyncTransition](f.bus, event_bus.SyncStateChanged,
			func(e event_bus.EventT[event_bus.SyncTransition]) error {
				transitions = append(transitions, e.Data.Status)
				return nil
			})

		require.NoError(t, f.coordinator.SyncNow(ctx))

		assert.Equal(t, []string{string(StatusSyncing), string(StatusSynced)}, transitions)
	})
}
