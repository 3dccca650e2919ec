package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/cache"
	"github.com/smartspend/smartspend/internal/event_bus"
	"github.com/smartspend/smartspend/internal/utils"
	"github.com/smartspend/smartspend/pkg/category"
	"github.com/smartspend/smartspend/pkg/fixedexpense"
	"github.com/smartspend/smartspend/pkg/ledger"
)

const budgetDataKey = "budgetData"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

// StatusReport is the coordinator state exposed over the API.
type StatusReport struct {
	Status     Status     `json:"status"`
	Dirty      bool       `json:"dirty"`
	RemoteMode bool       `json:"remoteMode"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
}

// Coordinator owns persistence: it keeps the in-memory stores, the local
// cache, and the remote document store consistent. Every local mutation is
// written to the cache immediately and marked dirty for the next remote push.
type Coordinator struct {
	store      *ledger.Store
	categories *category.Registry
	templates  *fixedexpense.TemplateStore
	cache      *cache.Store
	remote     RemoteStore
	bus        *event_bus.EventBus
	clock      utils.Clock
	userID     string

	graceWindow time.Duration

	mu         sync.Mutex
	dirty      DirtyTracker
	status     Status
	lastError  error
	lastSynced time.Time
	graceUntil time.Time
	// applying suppresses dirty-marking while a remote document is being
	// copied into the local stores.
	applying bool

	stopRemote   func()
	unsubscribes []func()
}

func NewCoordinator(
	store *ledger.Store,
	categories *category.Registry,
	templates *fixedexpense.TemplateStore,
	cacheStore *cache.Store,
	remote RemoteStore,
	bus *event_bus.EventBus,
	clock utils.Clock,
	userID string,
	graceWindow time.Duration,
) *Coordinator {
	return &Coordinator{
		store:       store,
		categories:  categories,
		templates:   templates,
		cache:       cacheStore,
		remote:      remote,
		bus:         bus,
		clock:       clock,
		userID:      userID,
		graceWindow: graceWindow,
		status:      StatusIdle,
	}
}

func (c *Coordinator) remoteMode() bool {
	return c.remote != nil && c.userID != ""
}

// Start loads the cached state, wires the event subscriptions, and, in
// remote mode, reconciles with the remote document and begins listening for
// remote pushes.
func (c *Coordinator) Start(ctx context.Context) error {
	hadLocal, err := c.loadLocal()
	if err != nil {
		return err
	}

	for _, eventType := range []event_bus.EventType{
		event_bus.LedgerChanged,
		event_bus.CategoriesChanged,
		event_bus.TemplatesChanged,
	} {
		c.unsubscribes = append(c.unsubscribes, c.bus.Subscribe(eventType, func(event_bus.Event) error {
			return c.onLocalMutation()
		}))
	}

	if !c.remoteMode() {
		log.Info("No remote user configured, running in local-cache-only mode")
		return nil
	}

	doc, err := c.remote.Load(ctx, c.userID)
	if err != nil {
		// The cache copy keeps the app usable; remote sync resumes on the
		// next push.
		log.Errorf("Initial remote load failed, continuing from local cache: %v", err)
		c.setStatus(ctx, StatusError, err)
	} else if doc != nil {
		c.applyDocument(ctx, *doc)
		c.setStatus(ctx, StatusSynced, nil)
	} else if hadLocal {
		// First run against an empty remote account: seed it with the local
		// data instead of wiping the cache.
		log.Info("Remote document absent, uploading local state")
		c.dirty.MarkDirty()
		if err := c.SyncNow(ctx); err != nil {
			log.Errorf("Initial upload failed: %v", err)
		}
	}

	c.mu.Lock()
	c.graceUntil = c.clock.Now().Add(c.graceWindow)
	c.mu.Unlock()

	stop, err := c.remote.Subscribe(ctx, c.userID, func(doc Document) {
		c.onRemotePush(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to remote updates: %w", err)
	}
	c.stopRemote = stop
	return nil
}

// Flush pushes any unsaved state and tears down the subscriptions. Called on
// shutdown.
func (c *Coordinator) Flush(ctx context.Context) error {
	if c.stopRemote != nil {
		c.stopRemote()
		c.stopRemote = nil
	}
	for _, unsubscribe := range c.unsubscribes {
		unsubscribe()
	}
	c.unsubscribes = nil

	if c.dirty.IsDirty() {
		return c.SyncNow(ctx)
	}
	return nil
}

// SyncNow pushes the current state to the remote store. Without a remote it
// only refreshes the local cache. On a push failure the state stays dirty
// and the cache still holds the latest copy.
func (c *Coordinator) SyncNow(ctx context.Context) error {
	if err := c.writeLocal(); err != nil {
		return err
	}
	if !c.remoteMode() {
		return nil
	}

	c.setStatus(ctx, StatusSyncing, nil)
	gen := c.dirty.SaveAttempt()

	doc := c.snapshot()
	if err := c.remote.Save(ctx, c.userID, doc); err != nil {
		c.dirty.SaveFailed()
		c.setStatus(ctx, StatusError, err)
		return fmt.Errorf("remote save failed: %w", err)
	}

	c.dirty.SaveSucceeded(gen)
	c.mu.Lock()
	c.lastSynced = c.clock.Now()
	c.mu.Unlock()
	c.setStatus(ctx, StatusSynced, nil)
	return nil
}

// PersistNow writes the current state to the local cache synchronously and
// marks it for the next remote push. Used by the fixed-expense engine, which
// must not stamp its monthly check until the generated items are durable.
func (c *Coordinator) PersistNow(ctx context.Context) error {
	c.dirty.MarkDirty()
	return c.writeLocal()
}

// Reset wipes the ledger, categories, and templates everywhere: in memory,
// in the local cache, and (in remote mode) in the remote document.
func (c *Coordinator) Reset(ctx context.Context) error {
	log.Warn("Resetting all budget data")
	c.store.Replace(map[string][]ledger.ExpenseItem{})
	c.categories.Replace(nil)
	c.templates.Replace(nil)
	c.dirty.MarkDirty()
	return c.SyncNow(ctx)
}

func (c *Coordinator) Report() StatusReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := StatusReport{
		Status:     c.status,
		Dirty:      c.dirty.IsDirty(),
		RemoteMode: c.remoteMode(),
	}
	if !c.lastSynced.IsZero() {
		synced := c.lastSynced
		report.LastSynced = &synced
	}
	if c.lastError != nil {
		report.LastError = c.lastError.Error()
	}
	return report
}

// loadLocal restores state from the cache. Legacy ledger keys are migrated
// and, when anything changed, the canonical form is written back.
func (c *Coordinator) loadLocal() (bool, error) {
	raw, ok, err := c.cache.Get(budgetDataKey)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return false, fmt.Errorf("failed to decode cached budget data: %w", err)
	}

	migrated, changed := MigrateLegacyKeys(doc.Ledger, c.clock.Now().Year())
	c.store.Replace(migrated)
	c.categories.Replace(doc.Categories)
	c.templates.Replace(doc.Templates)

	if changed {
		log.Info("Migrated legacy ledger keys in local cache")
		c.dirty.MarkDirty()
		if err := c.writeLocal(); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (c *Coordinator) writeLocal() error {
	doc := c.snapshot()
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode budget data: %w", err)
	}
	if err := c.cache.Put(budgetDataKey, string(raw)); err != nil {
		return fmt.Errorf("failed to cache budget data: %w", err)
	}
	return nil
}

func (c *Coordinator) snapshot() Document {
	return Document{
		Ledger:     c.store.Snapshot(),
		Categories: c.categories.Snapshot(),
		Templates:  c.templates.Snapshot(),
		UpdatedAt:  c.clock.Now(),
	}
}

func (c *Coordinator) onLocalMutation() error {
	c.mu.Lock()
	if c.applying {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.dirty.MarkDirty()
	if err := c.writeLocal(); err != nil {
		log.Errorf("Failed to persist local mutation: %v", err)
		return err
	}
	return nil
}

// onRemotePush applies a document pushed by the remote store. Pushes inside
// the grace window are the remote echoing the state we just loaded or
// uploaded; applying them would clobber edits made in the meantime.
func (c *Coordinator) onRemotePush(ctx context.Context, doc Document) {
	c.mu.Lock()
	inGrace := c.clock.Now().Before(c.graceUntil)
	c.mu.Unlock()

	if inGrace {
		log.Debug("Ignoring remote push inside the grace window")
		return
	}

	log.Info("Applying remote update")
	c.applyDocument(ctx, doc)
	c.setStatus(ctx, StatusSynced, nil)
}

func (c *Coordinator) applyDocument(ctx context.Context, doc Document) {
	c.mu.Lock()
	c.applying = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.applying = false
		c.mu.Unlock()
	}()

	migrated, changed := MigrateLegacyKeys(doc.Ledger, c.clock.Now().Year())
	c.store.Replace(migrated)
	c.categories.Replace(doc.Categories)
	c.templates.Replace(doc.Templates)

	if changed {
		// The remote copy still carries legacy keys; mark dirty so the next
		// push writes the canonical form back.
		log.Info("Migrated legacy ledger keys in remote document")
		c.dirty.MarkDirty()
	}

	if err := c.writeLocal(); err != nil {
		log.Errorf("Failed to cache applied remote document: %v", err)
	}
}

func (c *Coordinator) setStatus(ctx context.Context, status Status, cause error) {
	c.mu.Lock()
	c.status = status
	c.lastError = cause
	c.mu.Unlock()

	if c.bus == nil {
		return
	}
	transition := event_bus.SyncTransition{Status: string(status), Dirty: c.dirty.IsDirty()}
	if err := c.bus.Publish(event_bus.NewEvent(ctx, event_bus.SyncStateChanged, transition)); err != nil {
		log.Errorf("failed to publish sync transition: %v", err)
	}
}
