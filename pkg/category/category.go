package category

import "errors"

// SentinelName is the category that absorbs items whose own category was
// deleted.
const SentinelName = "기타"

var (
	ErrDuplicateCategory = errors.New("category name already exists")
	ErrEmptyName         = errors.New("category name must not be empty")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidOrder      = errors.New("reorder list must contain every category exactly once")
)

// Category is a named, colored tag applied to ledger items. Items reference a
// category by Name, not ID, so renames cascade through the ledger.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	ChartColor string `json:"chartColor"`
	FillColor  string `json:"fillColor"`
	Icon       string `json:"icon"`
}

func (c Category) withPalette(entry PaletteEntry) Category {
	c.Color = entry.Color
	c.ChartColor = entry.ChartColor
	c.FillColor = entry.FillColor
	c.Icon = entry.Icon
	return c
}
