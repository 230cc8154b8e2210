package quote

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/Simplici0/steelcalc/internal/pricing"
)

// WritePDF renders the snapshot as a one page A4 PDF.
func WritePDF(w io.Writer, s pricing.State, opts Options) error {
	opts = opts.withDefaults()

	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(opts.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", opts.Date.Format("2006-01-02")))
	pdf.Ln(6)
	if opts.Reference != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Reference: %s", opts.Reference)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Currency: %s", opts.Formatter.Code()))
	pdf.Ln(10)

	for _, sec := range Sections(s, opts.Formatter) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, sec.Heading, "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range sec.Lines {
			pdf.CellFormat(90, 7, tr(line.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, tr(line.Text), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if s.Pending {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, "Prices were edited and not yet reconciled with the margin.", "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write quote pdf: %w", err)
	}
	return nil
}
