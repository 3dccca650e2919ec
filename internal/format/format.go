package format

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// FormatAmount renders a whole-unit amount with digit grouping, e.g. 12000 -> "12,000".
func FormatAmount(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// FormatCurrency renders an amount with the won suffix used across the UI.
func FormatCurrency(amount int64) string {
	return FormatAmount(amount) + "원"
}

// ParseAmount accepts plain or comma-grouped digits and returns the whole-unit amount.
func ParseAmount(s string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return n, nil
}
