// Package display renders calculation values for people and validates the
// text they type into numeric fields.
package display

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidNumericInput is returned for text that is not digits with at most
// one decimal point.
var ErrInvalidNumericInput = errors.New("invalid numeric input")

var numericPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// Formatter renders currency, percent and plain numbers for one locale and
// currency. The zero value is not usable; use NewFormatter.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter returns a formatter for the ISO 4217 currency code, e.g. "USD".
func NewFormatter(tag language.Tag, code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// Default is the US English / USD formatter.
var Default = mustFormatter(language.AmericanEnglish, "USD")

func mustFormatter(tag language.Tag, code string) *Formatter {
	f, err := NewFormatter(tag, code)
	if err != nil {
		panic(err)
	}
	return f
}

// Blank reports whether v is a NaN or infinite sentinel that must be shown as
// an empty field.
func Blank(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Currency renders v with the currency symbol, thousands separators and two
// decimals. Sentinels render as "".
func (f *Formatter) Currency(v float64) string {
	if Blank(v) {
		return ""
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	symbol := f.printer.Sprint(currency.NarrowSymbol(f.unit))
	return sign + symbol + f.printer.Sprintf("%.2f", v)
}

// Percent renders a 0–100 percent with two decimals and a % suffix.
func (f *Formatter) Percent(v float64) string {
	if Blank(v) {
		return ""
	}
	return f.printer.Sprintf("%.2f", v) + "%"
}

// Number renders v with thousands separators and the given decimals.
func (f *Formatter) Number(v float64, decimals int) string {
	if Blank(v) {
		return ""
	}
	return f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Code returns the ISO currency code.
func (f *Formatter) Code() string {
	return f.unit.String()
}

// ParseNumeric converts field text into a value. An empty field or a lone
// decimal point reads as zero so a field can be cleared while typing.
func ParseNumeric(text string) (float64, error) {
	if !numericPattern.MatchString(text) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericInput, text)
	}
	if text == "" || text == "." {
		return 0, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumericInput, text)
	}
	return v, nil
}
