package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned for a primary input name the engine does not know.
	ErrUnknownField = errors.New("unknown input field")
	// ErrUnknownPriceKind is returned for a per-unit price name the engine does not know.
	ErrUnknownPriceKind = errors.New("unknown price kind")
)

// Field names a primary input.
type Field string

const (
	OutsideDiameter Field = "outside-diameter"
	Length          Field = "length"
	Pieces          Field = "pieces"
	CostPerPound    Field = "cost-per-pound"
	ExternalCost    Field = "external-cost"
)

// Fields lists the primary inputs in form order.
var Fields = []Field{OutsideDiameter, Length, Pieces, CostPerPound, ExternalCost}

// ParseField validates a field name coming from a caller.
func ParseField(name string) (Field, error) {
	f := Field(name)
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (in *Inputs) set(f Field, value float64) error {
	switch f {
	case OutsideDiameter:
		in.OutsideDiameter = value
	case Length:
		in.Length = value
	case Pieces:
		in.Pieces = value
	case CostPerPound:
		in.CostPerPound = value
	case ExternalCost:
		in.ExternalCost = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// PriceKind names one of the per-unit price fields that can be edited directly.
type PriceKind string

const (
	PricePerInch  PriceKind = "cost-by-inches"
	PricePerPiece PriceKind = "cost-by-pieces"
	PricePerPound PriceKind = "cost-by-pounds"
)

// PriceKinds lists the per-unit prices in form order.
var PriceKinds = []PriceKind{PricePerInch, PricePerPiece, PricePerPound}

// ParsePriceKind validates a price kind coming from a caller.
func ParsePriceKind(name string) (PriceKind, error) {
	k := PriceKind(name)
	for _, known := range PriceKinds {
		if k == known {
			return k, nil
		}
	}
	return "", unknownPriceKind(k)
}

func unknownPriceKind(k PriceKind) error {
	return fmt.Errorf("%w: %q", ErrUnknownPriceKind, string(k))
}

func (d *Derived) setPrice(kind PriceKind, value float64) {
	switch kind {
	case PricePerInch:
		d.PricePerInch = value
	case PricePerPiece:
		d.PricePerPiece = value
	case PricePerPound:
		d.PricePerPound = value
	}
}

// Driver identifies which field currently determines the margin.
type Driver string

// DriverMargin means the margin was set directly and prices follow from it.
const DriverMargin Driver = "margin"
