package estimate

import "math"

// BreakevenInputs pairs the capital outlay with the expected monthly profit.
type BreakevenInputs struct {
	TotalCost     float64 `json:"totalCost" yaml:"totalCost"`
	MonthlyProfit float64 `json:"monthlyProfit" yaml:"monthlyProfit"`
}

// CumulativePoint is the running profit at the end of a month.
type CumulativePoint struct {
	Month            int     `json:"month"`
	CumulativeProfit float64 `json:"cumulativeProfit"`
}

// BreakevenResult holds the breakeven month count and the first year of
// cumulative profit.
type BreakevenResult struct {
	Months           int               `json:"months"`
	CumulativeProfit []CumulativePoint `json:"cumulativeProfit"`
}

// maxMonths is 2^63, the first float64 that does not fit in an int.
var maxMonths = math.Ldexp(1, 63)

// Breakeven returns floor(totalCost / monthlyProfit) months. A zero monthly
// profit, or a ratio too large for an int, reports 0 months; callers decide
// whether that is meaningful.
func Breakeven(in BreakevenInputs) BreakevenResult {
	months := 0
	if in.MonthlyProfit != 0 {
		ratio := math.Floor(in.TotalCost / in.MonthlyProfit)
		if !math.IsInf(ratio, 0) && !math.IsNaN(ratio) && math.Abs(ratio) < maxMonths {
			months = int(ratio)
		}
	}

	points := make([]CumulativePoint, 0, ForecastMonths)
	for i := 1; i <= ForecastMonths; i++ {
		points = append(points, CumulativePoint{
			Month:            i,
			CumulativeProfit: in.MonthlyProfit * float64(i),
		})
	}

	return BreakevenResult{
		Months:           months,
		CumulativeProfit: points,
	}
}
