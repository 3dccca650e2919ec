package fixedexpense

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount    = errors.New("template amount must be positive")
	ErrEmptyDescription = errors.New("template description must not be empty")
	ErrEmptyCategory    = errors.New("template category must not be empty")
	ErrInvalidDay       = errors.New("template day of month must be between 1 and 31")
	ErrTemplateNotFound = errors.New("template not found")
)

// Template describes a recurring expense that is materialized into the ledger
// once per month. DayOfMonth may exceed the target month's length; the engine
// clamps it to the month's last day.
type Template struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	DayOfMonth  int       `json:"dayOfMonth"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.DayOfMonth < 1 || t.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	return nil
}

// IsValidationError reports whether err came from Template.Validate.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrEmptyCategory) ||
		errors.Is(err, ErrInvalidDay)
}
