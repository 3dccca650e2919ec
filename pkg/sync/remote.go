package sync

import (
	"context"
	"time"

	"github.com/smartspend/smartspend/pkg/category"
	"github.com/smartspend/smartspend/pkg/fixedexpense"
	"github.com/smartspend/smartspend/pkg/ledger"
)

// Document is the full budget state as stored in the remote document store
// and in the local cache. Ledger keys are period strings.
type Document struct {
	Ledger     map[string][]ledger.ExpenseItem `json:"ledger"`
	Categories []category.Category             `json:"categories"`
	Templates  []fixedexpense.Template         `json:"fixedExpenseTemplates"`
	UpdatedAt  time.Time                       `json:"updatedAt"`
}

// RemoteStore is the per-user remote document store.
type RemoteStore interface {
	// Load returns the user's document, or nil when none exists yet.
	Load(ctx context.Context, userID string) (*Document, error)
	// Save overwrites the user's document.
	Save(ctx context.Context, userID string, doc Document) error
	// Subscribe invokes fn for every remote update until the returned stop
	// function is called.
	Subscribe(ctx context.Context, userID string, fn func(Document)) (stop func(), err error)
}
