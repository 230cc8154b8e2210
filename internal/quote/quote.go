// Package quote renders a calculation snapshot as a downloadable document.
package quote

import (
	"time"

	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
)

// Options controls document headers.
type Options struct {
	Title     string
	Reference string
	Date      time.Time
	Formatter *display.Formatter
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Steel Quote"
	}
	if o.Date.IsZero() {
		o.Date = time.Now()
	}
	if o.Formatter == nil {
		o.Formatter = display.Default
	}
	return o
}

// Line is one labelled value of a quote. Text is blank for NaN and infinite
// values.
type Line struct {
	Label string
	Value float64
	Text  string
}

// Section groups lines under a heading.
type Section struct {
	Heading string
	Lines   []Line
}

// Sections lays out a snapshot the way the calculator form does: inputs,
// outputs, then the per-unit breakdown.
func Sections(s pricing.State, f *display.Formatter) []Section {
	money := func(label string, v float64) Line { return Line{label, v, f.Currency(v)} }
	number := func(label string, v float64, decimals int) Line { return Line{label, v, f.Number(v, decimals)} }

	return []Section{
		{Heading: "Inputs", Lines: []Line{
			number("Outside Diameter (in)", s.OutsideDiameter, 3),
			number("Length (in)", s.Length, 3),
			number("Pieces", s.Pieces, 0),
			money("Cost Per Pound", s.CostPerPound),
			money("External Costs", s.ExternalCost),
			{"Gross Margin", s.MarginPercent, f.Percent(s.MarginPercent)},
		}},
		{Heading: "Outputs", Lines: []Line{
			number("Total Pounds", s.TotalWeight, 2),
			money("Total Cost", s.TotalCost),
			money("Total Charge", s.TotalPrice),
			money("Gross Profit", s.GrossProfit),
		}},
		{Heading: "Breakdown", Lines: []Line{
			money("Price Per Inch", s.PricePerInch),
			money("Price Per Piece", s.PricePerPiece),
			money("Price Per Pound", s.PricePerPound),
		}},
	}
}
