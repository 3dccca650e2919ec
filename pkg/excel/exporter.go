package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/smartspend/smartspend/internal/format"
	"github.com/smartspend/smartspend/pkg/ledger"
)

// Column layout shared by the exporter and the importer. Row 1 carries the
// "YYYY년 M월" title, row 2 the headers, data starts at row 3.
var headerRow = []string{"분류", "내용", "구분", "금액", "날짜", "메모"}

const (
	typeFixedLabel    = "고정비"
	typeVariableLabel = "변동비"
)

// Exporter writes the ledger as a workbook with one worksheet per month.
type Exporter struct {
	store *ledger.Store
}

func NewExporter(store *ledger.Store) *Exporter {
	return &Exporter{store: store}
}

var ErrNothingToExport = fmt.Errorf("no expense data to export")

// Export writes every non-empty month as its own worksheet, oldest first.
func (e *Exporter) Export(w io.Writer) error {
	periods := e.store.Periods()

	f := excelize.NewFile()
	defer f.Close()

	wrote := 0
	for _, period := range periods {
		bucket := e.store.QueryPeriod(period)
		if len(bucket.Items) == 0 {
			continue
		}

		sheetName := sheetNameFor(period)
		if wrote == 0 {
			// The workbook starts with a default sheet; reuse it for the first month.
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				return fmt.Errorf("renaming first sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("creating sheet %q: %w", sheetName, err)
			}
		}

		if err := writeSheet(f, sheetName, period, bucket.Items); err != nil {
			return err
		}
		wrote++
	}

	if wrote == 0 {
		return ErrNothingToExport
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheetName string, period ledger.Period, items []ledger.ExpenseItem) error {
	if err := f.SetCellValue(sheetName, "A1", sheetName); err != nil {
		return fmt.Errorf("writing title of %q: %w", sheetName, err)
	}
	if err := f.SetSheetRow(sheetName, "A2", &headerRow); err != nil {
		return fmt.Errorf("writing header of %q: %w", sheetName, err)
	}

	for idx, item := range items {
		row := []interface{}{
			item.Category,
			item.Name,
			typeLabel(item.Type),
			format.FormatAmount(item.Amount),
			dateLabel(period, item.Day),
			item.Memo,
		}
		cell := fmt.Sprintf("A%d", idx+3)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d of %q: %w", idx+3, sheetName, err)
		}
	}

	widths := []float64{12, 24, 10, 14, 8, 24}
	for idx, width := range widths {
		col := string(rune('A' + idx))
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s of %q: %w", col, sheetName, err)
		}
	}
	return nil
}

func sheetNameFor(period ledger.Period) string {
	return fmt.Sprintf("%d년 %d월", period.Year, int(period.Month))
}

func typeLabel(t ledger.ExpenseType) string {
	if t == ledger.TypeFixed {
		return typeFixedLabel
	}
	return typeVariableLabel
}

func dateLabel(period ledger.Period, day *int) string {
	if day == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", int(period.Month), *day)
}
