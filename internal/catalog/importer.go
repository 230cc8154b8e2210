package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// ImportXLSX reads grades from the first sheet of a workbook and upserts them
// by name. The first row is a header; columns are name, cost_per_pound and an
// optional notes column. Rows that do not parse or validate are skipped and
// counted. The import is all or nothing when the database rejects a row.
func (s *Store) ImportXLSX(ctx context.Context, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin import transaction: %w", err)
	}

	var res ImportResult
	for _, row := range rows[1:] {
		g, err := parseGradeRow(row)
		if err != nil {
			res.Skipped++
			continue
		}
		inserted, err := upsert(ctx, tx, g)
		if err != nil {
			_ = tx.Rollback()
			return ImportResult{}, err
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("commit import transaction: %w", err)
	}
	return res, nil
}

func parseGradeRow(row []string) (Grade, error) {
	// expected: name, cost_per_pound, notes(optional)
	if len(row) < 2 {
		return Grade{}, fmt.Errorf("bad row")
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(row[1]), "$")), 64)
	if err != nil {
		return Grade{}, err
	}
	g := Grade{Name: row[0], CostPerPound: cost, Active: true}
	if len(row) > 2 {
		g.Notes = row[2]
	}
	if err := g.Validate(); err != nil {
		return Grade{}, err
	}
	return g, nil
}
