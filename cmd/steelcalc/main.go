package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
	"github.com/Simplici0/steelcalc/internal/quote"
)

const appVersion = "0.1.0"

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	labelStyle   = lipgloss.NewStyle().Width(24).Foreground(lipgloss.Color("#7f849c"))
	valueStyle   = lipgloss.NewStyle().Align(lipgloss.Right).Width(16)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
)

// priceFlag binds one --price-per-* flag to the derived price it edits.
type priceFlag struct {
	name string
	kind pricing.PriceKind
	help string
}

var priceFlags = []priceFlag{
	{name: "price-per-inch", kind: pricing.PricePerInch, help: "Back-solve the margin from a price per inch"},
	{name: "price-per-piece", kind: pricing.PricePerPiece, help: "Back-solve the margin from a price per piece"},
	{name: "price-per-pound", kind: pricing.PricePerPound, help: "Back-solve the margin from a price per pound"},
}

type calcOptions struct {
	inputs   pricing.Inputs
	price    *pricing.PriceKind
	value    float64
	currency string
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var (
		opts   calcOptions
		prices = make([]float64, len(priceFlags))
	)

	cmd := &cobra.Command{
		Use:           "steelcalc",
		Short:         "Price round steel bar stock from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, pf := range priceFlags {
				if cmd.Flags().Changed(pf.name) {
					kind := pf.kind
					opts.price = &kind
					opts.value = prices[i]
				}
			}

			state, err := calculate(opts)
			if err != nil {
				return err
			}
			format, err := display.NewFormatter(language.AmericanEnglish, opts.currency)
			if err != nil {
				return fmt.Errorf("invalid --currency: %w", err)
			}
			render(out, state, format)
			return nil
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("steelcalc v{{.Version}}\n")

	flags := cmd.Flags()
	flags.Float64Var(&opts.inputs.OutsideDiameter, "od", 0, "Outside diameter in inches")
	flags.Float64Var(&opts.inputs.Length, "length", 0, "Length of one piece in inches")
	flags.Float64Var(&opts.inputs.Pieces, "pieces", 0, "Number of pieces")
	flags.Float64Var(&opts.inputs.CostPerPound, "cost", 0, "Material cost per pound")
	flags.Float64Var(&opts.inputs.ExternalCost, "external", 0, "Flat external costs for the job")
	flags.Float64Var(&opts.inputs.MarginPercent, "margin", 0, "Gross margin percent")
	flags.StringVar(&opts.currency, "currency", "USD", "ISO 4217 currency code for display")

	names := make([]string, 0, len(priceFlags))
	for i, pf := range priceFlags {
		flags.Float64Var(&prices[i], pf.name, 0, pf.help)
		names = append(names, pf.name)
	}
	cmd.MarkFlagsMutuallyExclusive(names...)

	return cmd
}

// calculate runs the inputs through an engine. A price edit is flushed
// straight away so the margin it implies is reported.
func calculate(opts calcOptions) (pricing.State, error) {
	for _, v := range []float64{
		opts.inputs.OutsideDiameter,
		opts.inputs.Length,
		opts.inputs.Pieces,
		opts.inputs.CostPerPound,
		opts.inputs.ExternalCost,
		opts.inputs.MarginPercent,
		opts.value,
	} {
		if v < 0 {
			return pricing.State{}, fmt.Errorf("%w: values must not be negative", display.ErrInvalidNumericInput)
		}
	}

	engine := pricing.NewEngine(pricing.Options{QuietPeriod: time.Hour})
	defer engine.Close()

	in := opts.inputs
	for _, f := range pricing.Fields {
		if err := engine.SetPrimaryInput(f, fieldValue(in, f)); err != nil {
			return pricing.State{}, err
		}
	}
	engine.SetMargin(in.MarginPercent)

	if opts.price != nil {
		if err := engine.SetDerivedPrice(*opts.price, opts.value); err != nil {
			return pricing.State{}, err
		}
		engine.Flush()
	}
	return engine.State(), nil
}

func fieldValue(in pricing.Inputs, f pricing.Field) float64 {
	switch f {
	case pricing.OutsideDiameter:
		return in.OutsideDiameter
	case pricing.Length:
		return in.Length
	case pricing.Pieces:
		return in.Pieces
	case pricing.CostPerPound:
		return in.CostPerPound
	case pricing.ExternalCost:
		return in.ExternalCost
	}
	return 0
}

func render(w io.Writer, s pricing.State, f *display.Formatter) {
	var b strings.Builder
	for i, sec := range quote.Sections(s, f) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(sec.Heading))
		b.WriteString("\n")
		for _, line := range sec.Lines {
			text := line.Text
			if text == "" {
				text = "-"
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(line.Label), valueStyle.Render(text)))
			b.WriteString("\n")
		}
	}
	if s.Driver != pricing.DriverMargin && s.Driver != "" {
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(fmt.Sprintf("margin solved from %s", s.Driver)))
		b.WriteString("\n")
	}
	fmt.Fprint(w, b.String())
}
