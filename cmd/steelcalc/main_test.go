package main

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
)

func sampleOptions() calcOptions {
	return calcOptions{inputs: pricing.Inputs{
		OutsideDiameter: 2,
		Length:          120,
		Pieces:          10,
		CostPerPound:    0.85,
		ExternalCost:    50,
		MarginPercent:   20,
	}}
}

func TestCalculateForward(t *testing.T) {
	s, err := calculate(sampleOptions())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if math.Abs(s.TotalPrice-1197.25) > 1e-9 {
		t.Fatalf("TotalPrice = %v, want 1197.25", s.TotalPrice)
	}
	if s.Pending || s.Driver != pricing.DriverMargin {
		t.Fatalf("unexpected driver state: %+v", s)
	}
}

func TestCalculateSolvesMarginFromPrice(t *testing.T) {
	opts := sampleOptions()
	kind := pricing.PricePerPiece
	opts.price = &kind
	opts.value = 150

	s, err := calculate(opts)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	want := (1500 - 957.8) / 1500 * 100
	if math.Abs(s.MarginPercent-want) > 1e-9 {
		t.Fatalf("MarginPercent = %v, want %v", s.MarginPercent, want)
	}
	if math.Abs(s.PricePerPiece-150) > 1e-9 {
		t.Fatalf("PricePerPiece = %v, want 150", s.PricePerPiece)
	}
	if s.Pending {
		t.Fatalf("price edit should be reconciled")
	}
}

func TestCalculateRejectsNegativeValues(t *testing.T) {
	opts := sampleOptions()
	opts.inputs.Pieces = -1

	if _, err := calculate(opts); !errors.Is(err, display.ErrInvalidNumericInput) {
		t.Fatalf("err = %v, want ErrInvalidNumericInput", err)
	}
}

func TestRenderShowsSectionsAndBlanks(t *testing.T) {
	opts := sampleOptions()
	opts.inputs.Pieces = 0
	s, err := calculate(opts)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	var buf bytes.Buffer
	render(&buf, s, display.Default)
	out := buf.String()

	for _, want := range []string{"Inputs", "Outputs", "Total Charge", "Price Per Piece", "20.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Price Per Piece") && !strings.HasSuffix(strings.TrimSpace(line), "-") {
			t.Fatalf("expected blank per-piece price, got %q", line)
		}
	}
}

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCommand(&buf)
	cmd.SetArgs([]string{
		"--od", "2", "--length", "120", "--pieces", "10",
		"--cost", "0.85", "--external", "50", "--price-per-piece", "150",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "1,500.00") || !strings.Contains(out, "36.15%") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "margin solved from cost-by-pieces") {
		t.Fatalf("missing driver note:\n%s", out)
	}
}

func TestRootCommandRejectsTwoPrices(t *testing.T) {
	cmd := newRootCommand(&bytes.Buffer{})
	cmd.SetArgs([]string{"--price-per-inch", "1", "--price-per-pound", "2"})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected mutually exclusive flag error")
	}
}

func TestRootCommandRejectsUnknownCurrency(t *testing.T) {
	cmd := newRootCommand(&bytes.Buffer{})
	cmd.SetArgs([]string{"--currency", "ZZZZ"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected currency error")
	}
}
