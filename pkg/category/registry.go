package category

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LedgerCascader rewrites category references on ledger items. Implemented by
// the ledger store.
type LedgerCascader interface {
	RenameCategory(oldName, newName string) int
}

// Registry holds the ordered list of active categories and keeps the ledger's
// name references consistent across renames and deletions.
type Registry struct {
	mu         sync.Mutex
	categories []Category
	ledger     LedgerCascader
}

func NewRegistry(ledger LedgerCascader) *Registry {
	return &Registry{ledger: ledger}
}

// Add creates a category with the next palette slot. The trimmed name must be
// non-empty and unique among active categories.
func (r *Registry) Add(name string) (Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Category{}, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByNameLocked(trimmed) >= 0 {
		return Category{}, ErrDuplicateCategory
	}

	created := Category{
		ID:   uuid.NewString(),
		Name: trimmed,
	}.withPalette(PaletteFor(len(r.categories)))
	r.categories = append(r.categories, created)
	return created, nil
}

// Ensure returns the category with the given name, creating it with the next
// palette slot when absent. The second return value reports creation.
func (r *Registry) Ensure(name string) (Category, bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Category{}, false, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx := r.indexByNameLocked(trimmed); idx >= 0 {
		return r.categories[idx], false, nil
	}

	created := Category{
		ID:   uuid.NewString(),
		Name: trimmed,
	}.withPalette(PaletteFor(len(r.categories)))
	r.categories = append(r.categories, created)
	return created, true, nil
}

// Rename changes a category's name and rewrites every ledger item referencing
// the old name. Validation happens before any mutation, so a failure leaves
// both the registry and the ledger untouched. Returns the renamed category and
// the number of rewritten items.
func (r *Registry) Rename(id, newName string) (Category, int, error) {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return Category{}, 0, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexByIDLocked(id)
	if idx < 0 {
		return Category{}, 0, ErrCategoryNotFound
	}
	if existing := r.indexByNameLocked(trimmed); existing >= 0 && existing != idx {
		return Category{}, 0, ErrDuplicateCategory
	}

	oldName := r.categories[idx].Name
	r.categories[idx].Name = trimmed

	rewritten := 0
	if r.ledger != nil && oldName != trimmed {
		rewritten = r.ledger.RenameCategory(oldName, trimmed)
	}
	return r.categories[idx], rewritten, nil
}

// Delete removes a category and reassigns every item referencing it to the
// sentinel name. Deletion always succeeds; the bool reports whether the id
// existed. Items are never lost, only relabeled.
func (r *Registry) Delete(id string) (Category, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexByIDLocked(id)
	if idx < 0 {
		return Category{}, 0, false
	}

	removed := r.categories[idx]
	r.categories = append(r.categories[:idx:idx], r.categories[idx+1:]...)

	reassigned := 0
	if r.ledger != nil {
		reassigned = r.ledger.RenameCategory(removed.Name, SentinelName)
	}
	return removed, reassigned, true
}

// Reorder replaces the stored order. The id list must contain every active
// category exactly once. No ledger cascade is needed: items reference names,
// not positions.
func (r *Registry) Reorder(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) != len(r.categories) {
		return ErrInvalidOrder
	}

	byID := make(map[string]Category, len(r.categories))
	for _, cat := range r.categories {
		byID[cat.ID] = cat
	}

	reordered := make([]Category, 0, len(ids))
	for _, id := range ids {
		cat, ok := byID[id]
		if !ok {
			return ErrInvalidOrder
		}
		delete(byID, id)
		reordered = append(reordered, cat)
	}

	r.categories = reordered
	return nil
}

// All returns the categories in display order.
func (r *Registry) All() []Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]Category, len(r.categories))
	copy(copied, r.categories)
	return copied
}

// Snapshot returns a copy of the registry content for persistence.
func (r *Registry) Snapshot() []Category {
	return r.All()
}

// Replace swaps the registry content for the given list.
func (r *Registry) Replace(categories []Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories = make([]Category, len(categories))
	copy(r.categories, categories)
}

func (r *Registry) indexByNameLocked(name string) int {
	for idx, cat := range r.categories {
		if cat.Name == name {
			return idx
		}
	}
	return -1
}

func (r *Registry) indexByIDLocked(id string) int {
	for idx, cat := range r.categories {
		if cat.ID == id {
			return idx
		}
	}
	return -1
}
