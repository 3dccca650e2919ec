package event_bus

const (
	// LedgerChanged fires after any mutation of the expense ledger.
	LedgerChanged EventType = "ledger.changed"
	// CategoriesChanged fires after any mutation of the category registry.
	CategoriesChanged EventType = "categories.changed"
	// TemplatesChanged fires after any mutation of the fixed-expense templates.
	TemplatesChanged EventType = "templates.changed"
	// SyncStateChanged fires when the coordinator's sync status transitions.
	SyncStateChanged EventType = "sync.state"
)

// LedgerMutation describes a single change to the ledger.
type LedgerMutation struct {
	Op     string
	ItemID string
	Period string
}

// CategoryMutation describes a single change to the category registry.
type CategoryMutation struct {
	Op   string
	Name string
}

// SyncTransition carries the coordinator's new sync status.
type SyncTransition struct {
	Status string
	Dirty  bool
}
