package main

import (
	"strconv"

	"github.com/Simplici0/steelcalc/internal/catalog"
	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
)

// fieldView carries one value three ways: a JSON number (null for NaN and
// infinite sentinels), the raw text for an input box, and the display text.
type fieldView struct {
	Value *float64 `json:"value"`
	Raw   string   `json:"raw"`
	Text  string   `json:"text"`
}

type stateView struct {
	OutsideDiameter    fieldView `json:"outsideDiameter"`
	Length             fieldView `json:"length"`
	Pieces             fieldView `json:"pieces"`
	CostPerPound       fieldView `json:"costPerPound"`
	ExternalCost       fieldView `json:"externalCost"`
	GrossMarginPercent fieldView `json:"grossMarginPercent"`

	TotalWeight   fieldView `json:"totalWeight"`
	TotalCost     fieldView `json:"totalCost"`
	TotalPrice    fieldView `json:"totalPrice"`
	PricePerInch  fieldView `json:"pricePerInch"`
	PricePerPiece fieldView `json:"pricePerPiece"`
	PricePerPound fieldView `json:"pricePerPound"`
	GrossProfit   fieldView `json:"grossProfit"`

	Driver  string `json:"driver"`
	Pending bool   `json:"pending"`
}

func newField(v float64, text string) fieldView {
	if display.Blank(v) {
		return fieldView{}
	}
	return fieldView{Value: &v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Text: text}
}

func newStateView(s pricing.State, f *display.Formatter) stateView {
	return stateView{
		OutsideDiameter:    newField(s.OutsideDiameter, f.Number(s.OutsideDiameter, 3)),
		Length:             newField(s.Length, f.Number(s.Length, 3)),
		Pieces:             newField(s.Pieces, f.Number(s.Pieces, 0)),
		CostPerPound:       newField(s.CostPerPound, f.Currency(s.CostPerPound)),
		ExternalCost:       newField(s.ExternalCost, f.Currency(s.ExternalCost)),
		GrossMarginPercent: newField(s.MarginPercent, f.Percent(s.MarginPercent)),

		TotalWeight:   newField(s.TotalWeight, f.Number(s.TotalWeight, 2)),
		TotalCost:     newField(s.TotalCost, f.Currency(s.TotalCost)),
		TotalPrice:    newField(s.TotalPrice, f.Currency(s.TotalPrice)),
		PricePerInch:  newField(s.PricePerInch, f.Currency(s.PricePerInch)),
		PricePerPiece: newField(s.PricePerPiece, f.Currency(s.PricePerPiece)),
		PricePerPound: newField(s.PricePerPound, f.Currency(s.PricePerPound)),
		GrossProfit:   newField(s.GrossProfit, f.Currency(s.GrossProfit)),

		Driver:  string(s.Driver),
		Pending: s.Pending,
	}
}

type gradeView struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CostPerPound float64 `json:"costPerPound"`
	CostText     string  `json:"costText"`
	Notes        string  `json:"notes"`
	Active       bool    `json:"active"`
}

func newGradeViews(grades []catalog.Grade, f *display.Formatter) []gradeView {
	views := make([]gradeView, 0, len(grades))
	for _, g := range grades {
		views = append(views, gradeView{
			ID:           g.ID,
			Name:         g.Name,
			CostPerPound: g.CostPerPound,
			CostText:     f.Currency(g.CostPerPound),
			Notes:        g.Notes,
			Active:       g.Active,
		})
	}
	return views
}

type calculatorViewData struct {
	State       stateView
	Grades      []gradeView
	Fields      []pricing.Field
	PriceKinds  []pricing.PriceKind
	Currency    string
	QuietMillis int64
}
