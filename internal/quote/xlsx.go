package quote

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
)

const sheetName = "Quote"

// WriteXLSX renders the snapshot as a workbook with one sheet. Column B holds
// raw numbers and column C the formatted text; sentinel values are left empty
// in both.
func WriteXLSX(w io.Writer, s pricing.State, opts Options) error {
	opts = opts.withDefaults()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{
		{opts.Title},
		{"Date", opts.Date.Format("2006-01-02")},
		{"Reference", opts.Reference},
		{"Currency", opts.Formatter.Code()},
		{},
	}
	for _, sec := range Sections(s, opts.Formatter) {
		rows = append(rows, []any{sec.Heading})
		for _, line := range sec.Lines {
			rows = append(rows, []any{line.Label, cellValue(line.Value), line.Text})
		}
		rows = append(rows, []any{})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "C", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write quote xlsx: %w", err)
	}
	return nil
}

func cellValue(v float64) any {
	if display.Blank(v) {
		return nil
	}
	return v
}
