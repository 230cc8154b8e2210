package pricing

// weightFactor is the weight in pounds of one foot of 1" solid round steel bar.
const weightFactor = 2.67

// Inputs represents the user-settable values of a calculation.
type Inputs struct {
	OutsideDiameter float64
	Length          float64
	Pieces          float64
	CostPerPound    float64
	ExternalCost    float64
	// MarginPercent is the gross margin on total price, 0–100.
	MarginPercent float64
}

// Derived contains every value computed from Inputs.
type Derived struct {
	TotalWeight   float64
	TotalCost     float64
	TotalPrice    float64
	PricePerInch  float64
	PricePerPiece float64
	PricePerPound float64
	GrossProfit   float64
}

// Derive computes all derived values from the inputs.
//
// Division by zero is not guarded: the results carry NaN or ±Inf and it is up
// to the caller to render them as blanks.
func Derive(in Inputs) Derived {
	var d Derived
	d.TotalWeight = totalWeight(in)
	d.TotalCost = totalCost(in, d.TotalWeight)
	applyPrice(&d, in)
	return d
}

func totalWeight(in Inputs) float64 {
	return ((in.OutsideDiameter * in.OutsideDiameter * weightFactor) / 12) * in.Length * in.Pieces
}

func totalCost(in Inputs, weight float64) float64 {
	return weight*in.CostPerPound + in.ExternalCost
}

// applyPrice fills the price stage of the pipeline. It expects TotalWeight and
// TotalCost to be current.
func applyPrice(d *Derived, in Inputs) {
	d.TotalPrice = d.TotalCost / (1 - in.MarginPercent/100)
	d.PricePerInch = d.TotalPrice / (in.Length * in.Pieces)
	d.PricePerPiece = d.TotalPrice / in.Pieces
	d.PricePerPound = d.TotalPrice / d.TotalWeight
	d.GrossProfit = d.TotalPrice - d.TotalCost
}

// PriceOf returns the per-unit price of the given kind.
func (d Derived) PriceOf(kind PriceKind) float64 {
	switch kind {
	case PricePerInch:
		return d.PricePerInch
	case PricePerPiece:
		return d.PricePerPiece
	case PricePerPound:
		return d.PricePerPound
	}
	return 0
}

// GrossRevenue converts a per-unit price back into a total price for the
// current inputs.
func GrossRevenue(kind PriceKind, value float64, in Inputs) (float64, error) {
	switch kind {
	case PricePerInch:
		return value * in.Length * in.Pieces, nil
	case PricePerPiece:
		return value * in.Pieces, nil
	case PricePerPound:
		return value * totalWeight(in), nil
	}
	return 0, unknownPriceKind(kind)
}

// SolveMargin returns the margin percent at which the given per-unit price
// would be produced by Derive. The result is NaN when the revenue is zero.
func SolveMargin(kind PriceKind, value float64, in Inputs) (float64, error) {
	revenue, err := GrossRevenue(kind, value, in)
	if err != nil {
		return 0, err
	}
	netProfit := revenue - totalCost(in, totalWeight(in))
	return (netProfit / revenue) * 100, nil
}
