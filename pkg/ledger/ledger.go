package ledger

import (
	"errors"
	"sort"
	"strings"
)

type ExpenseType string

const (
	TypeFixed    ExpenseType = "fixed"
	TypeVariable ExpenseType = "variable"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive integer")
	ErrEmptyName     = errors.New("item name must not be empty")
	ErrInvalidDay    = errors.New("day must be between 1 and 31")
	ErrInvalidType   = errors.New("item type must be fixed or variable")
)

// IsValidationError reports whether err is a local input rejection that must
// surface to the caller without any state change.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidType)
}

// ExpenseItem is a single ledger entry. Category holds the category name, not
// its id; renames cascade through the store (see the category registry).
type ExpenseItem struct {
	ID       string      `json:"id"`
	Category string      `json:"category"`
	Name     string      `json:"name"`
	Amount   int64       `json:"amount"`
	Type     ExpenseType `json:"type"`
	// Day is the day of month the expense occurred; nil when unknown.
	Day  *int   `json:"day"`
	Memo string `json:"memo,omitempty"`
	// Generated marks items materialized by the fixed-expense engine so they
	// can be told apart from user-entered rows during deduplication.
	Generated bool `json:"isFixedExpenseGenerated,omitempty"`
}

func (i ExpenseItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	if i.Day != nil && (*i.Day < 1 || *i.Day > 31) {
		return ErrInvalidDay
	}
	switch i.Type {
	case TypeFixed, TypeVariable:
	default:
		return ErrInvalidType
	}
	return nil
}

// Bucket holds one period's items together with the freshly computed total.
// Total is always derived from Items, never stored.
type Bucket struct {
	Items []ExpenseItem `json:"items"`
	Total int64         `json:"total"`
}

// sortItems orders items ascending by day with nil days last. The sort is
// stable so same-day items keep their insertion order across queries.
func sortItems(items []ExpenseItem) {
	sort.SliceStable(items, func(a, b int) bool {
		da, db := items[a].Day, items[b].Day
		if da == nil {
			return false
		}
		if db == nil {
			return true
		}
		return *da < *db
	})
}

func sumAmounts(items []ExpenseItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Amount
	}
	return total
}
