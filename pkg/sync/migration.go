package sync

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/smartspend/smartspend/pkg/ledger"
)

var (
	// "3월" - month-only keys written before years were tracked.
	legacyMonthPattern = regexp.MustCompile(`^(\d{1,2})월$`)
	// "2024-3월" - keys written after years were added but before the
	// canonical zero-padded form.
	legacyYearMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})월$`)
)

// MigrateLegacyKeys rewrites old-format ledger keys to the canonical
// "YYYY-MM" form, merging buckets when a legacy key and its canonical
// counterpart both exist. Month-only keys get currentYear. Canonical keys
// pass through untouched, so running the migration twice changes nothing.
func MigrateLegacyKeys(snapshot map[string][]ledger.ExpenseItem, currentYear int) (map[string][]ledger.ExpenseItem, bool) {
	migrated := make(map[string][]ledger.ExpenseItem, len(snapshot))
	changed := false

	for key, items := range snapshot {
		target := key
		if match := legacyMonthPattern.FindStringSubmatch(key); match != nil {
			month, _ := strconv.Atoi(match[1])
			target = canonicalKey(currentYear, month)
			changed = true
		} else if match := legacyYearMonthPattern.FindStringSubmatch(key); match != nil {
			year, _ := strconv.Atoi(match[1])
			month, _ := strconv.Atoi(match[2])
			target = canonicalKey(year, month)
			changed = true
		} else if period, err := ledger.ParsePeriod(key); err == nil {
			padded := period.String()
			if padded != key {
				changed = true
			}
			target = padded
		}

		migrated[target] = append(migrated[target], items...)
	}

	return migrated, changed
}

func canonicalKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
