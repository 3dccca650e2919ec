package excel

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/format"
	"github.com/smartspend/smartspend/pkg/category"
	"github.com/smartspend/smartspend/pkg/ledger"
)

var (
	yearPattern  = regexp.MustCompile(`(\d{4})년`)
	monthPattern = regexp.MustCompile(`(\d{1,2})월`)
)

// Report summarizes one import run.
type Report struct {
	Added         int            `json:"added"`
	Duplicates    int            `json:"duplicates"`
	SkippedRows   int            `json:"skippedRows"`
	SkippedSheets []SkippedSheet `json:"skippedSheets"`
}

type SkippedSheet struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// CategoryEnsurer auto-creates categories referenced by imported rows.
// Implemented by the category registry.
type CategoryEnsurer interface {
	Ensure(name string) (category.Category, bool, error)
}

// Importer merges workbook rows into the ledger. Existing items are never
// replaced; rows that match an existing item on every field are counted as
// duplicates and dropped.
type Importer struct {
	store      *ledger.Store
	categories CategoryEnsurer
}

func NewImporter(store *ledger.Store, categories CategoryEnsurer) *Importer {
	return &Importer{store: store, categories: categories}
}

func (im *Importer) Import(r io.Reader) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	report := Report{SkippedSheets: []SkippedSheet{}}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return report, fmt.Errorf("reading sheet %q: %w", sheetName, err)
		}
		im.importSheet(sheetName, rows, &report)
	}
	return report, nil
}

func (im *Importer) importSheet(sheetName string, rows [][]string, report *Report) {
	skip := func(reason string) {
		log.Warnf("Skipping sheet %q: %s", sheetName, reason)
		report.SkippedSheets = append(report.SkippedSheets, SkippedSheet{Name: sheetName, Reason: reason})
	}

	if len(rows) < 2 {
		skip("missing title and header rows")
		return
	}

	title := ""
	if len(rows[0]) > 0 {
		title = rows[0][0]
	}
	period, err := periodFromTitle(title)
	if err != nil {
		skip(err.Error())
		return
	}

	seen := make(map[string]bool)
	for _, item := range im.store.QueryPeriod(period).Items {
		seen[dedupKey(item)] = true
	}

	for _, row := range rows[2:] {
		item, ok := parseRow(row)
		if !ok {
			report.SkippedRows++
			continue
		}

		key := dedupKey(item)
		if seen[key] {
			report.Duplicates++
			continue
		}

		// The category must exist before its item does; a row whose category
		// cannot be registered is dropped whole.
		if _, _, err := im.categories.Ensure(item.Category); err != nil {
			log.Warnf("Skipping row with unregistrable category %q in sheet %q: %v", item.Category, sheetName, err)
			report.SkippedRows++
			continue
		}

		if _, err := im.store.UpsertItem(period, item, ""); err != nil {
			log.Warnf("Skipping invalid row in sheet %q: %v", sheetName, err)
			report.SkippedRows++
			continue
		}
		seen[key] = true
		report.Added++
	}
}

func periodFromTitle(title string) (ledger.Period, error) {
	yearMatch := yearPattern.FindStringSubmatch(title)
	monthMatch := monthPattern.FindStringSubmatch(title)
	if yearMatch == nil || monthMatch == nil {
		return ledger.Period{}, fmt.Errorf("title %q does not name a year and month", title)
	}

	year, _ := strconv.Atoi(yearMatch[1])
	month, _ := strconv.Atoi(monthMatch[1])
	if month < 1 || month > 12 {
		return ledger.Period{}, fmt.Errorf("title %q names month %d", title, month)
	}
	return ledger.NewPeriod(year, time.Month(month)), nil
}

// parseRow maps one data row to an item. Rows without a category, a name, or
// a parseable amount are not importable.
func parseRow(row []string) (ledger.ExpenseItem, bool) {
	categoryName := strings.TrimSpace(cell(row, 0))
	name := strings.TrimSpace(cell(row, 1))
	if categoryName == "" || name == "" {
		return ledger.ExpenseItem{}, false
	}

	amount, err := format.ParseAmount(cell(row, 3))
	if err != nil || amount <= 0 {
		return ledger.ExpenseItem{}, false
	}

	itemType := ledger.TypeVariable
	if strings.TrimSpace(cell(row, 2)) == typeFixedLabel {
		itemType = ledger.TypeFixed
	}

	return ledger.ExpenseItem{
		Category: categoryName,
		Name:     name,
		Amount:   amount,
		Type:     itemType,
		Day:      parseDay(cell(row, 4)),
		Memo:     strings.TrimSpace(cell(row, 5)),
	}, true
}

// parseDay accepts the exporter's "M/D" form, a bare day number, or a full
// date. Anything else means the day is unknown.
func parseDay(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if strings.Contains(value, "/") {
		parts := strings.Split(value, "/")
		if len(parts) >= 2 {
			if day, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
				return validDay(day)
			}
		}
		return nil
	}

	if day, err := strconv.Atoi(value); err == nil {
		return validDay(day)
	}

	for _, layout := range []string{"2006-01-02", "2006.01.02", "01-02-06"} {
		if t, err := time.Parse(layout, value); err == nil {
			day := t.Day()
			return validDay(day)
		}
	}
	return nil
}

func validDay(day int) *int {
	if day < 1 || day > 31 {
		return nil
	}
	return &day
}

func dedupKey(item ledger.ExpenseItem) string {
	day := ""
	if item.Day != nil {
		day = strconv.Itoa(*item.Day)
	}
	return strings.Join([]string{
		item.Category,
		item.Name,
		strconv.FormatInt(item.Amount, 10),
		string(item.Type),
		day,
		item.Memo,
	}, "|")
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
