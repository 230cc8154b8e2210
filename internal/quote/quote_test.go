package quote

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
)

func sampleState() pricing.State {
	in := pricing.Inputs{
		OutsideDiameter: 2,
		Length:          120,
		Pieces:          10,
		CostPerPound:    0.85,
		ExternalCost:    50,
		MarginPercent:   20,
	}
	return pricing.State{Inputs: in, Derived: pricing.Derive(in), Driver: pricing.DriverMargin}
}

func findLine(t *testing.T, sections []Section, label string) Line {
	t.Helper()
	for _, sec := range sections {
		for _, line := range sec.Lines {
			if line.Label == label {
				return line
			}
		}
	}
	t.Fatalf("line %q not found", label)
	return Line{}
}

func TestSectionsFormatValues(t *testing.T) {
	sections := Sections(sampleState(), display.Default)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	if got := findLine(t, sections, "Total Charge").Text; !strings.HasSuffix(got, "1,197.25") {
		t.Fatalf("Total Charge text = %q", got)
	}
	if got := findLine(t, sections, "Gross Margin").Text; got != "20.00%" {
		t.Fatalf("Gross Margin text = %q", got)
	}
	if got := findLine(t, sections, "Total Pounds").Text; got != "1,068.00" {
		t.Fatalf("Total Pounds text = %q", got)
	}
}

func TestSectionsBlankSentinels(t *testing.T) {
	s := sampleState()
	s.Pieces = 0
	s.Derived = pricing.Derive(s.Inputs)

	sections := Sections(s, display.Default)
	for _, label := range []string{"Price Per Inch", "Price Per Piece", "Price Per Pound"} {
		if got := findLine(t, sections, label).Text; got != "" {
			t.Fatalf("%s text = %q, want blank", label, got)
		}
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, sampleState(), Options{Reference: "abc-123", Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestWriteXLSX(t *testing.T) {
	s := sampleState()
	s.Pieces = 0
	s.Derived = pricing.Derive(s.Inputs)

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, s, Options{Title: "Bar stock"}); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open written workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) == 0 || rows[0][0] != "Bar stock" {
		t.Fatalf("unexpected title row: %v", rows)
	}

	values := map[string][]string{}
	for _, row := range rows {
		if len(row) > 0 {
			values[row[0]] = row
		}
	}

	cost := values["Total Cost"]
	if len(cost) < 3 || cost[1] != "50" || !strings.HasSuffix(cost[2], "50.00") {
		t.Fatalf("Total Cost row = %v", cost)
	}
	if row := values["Price Per Piece"]; len(row) > 1 && strings.TrimSpace(strings.Join(row[1:], "")) != "" {
		t.Fatalf("Price Per Piece should be blank for zero pieces, got %v", row)
	}
}
