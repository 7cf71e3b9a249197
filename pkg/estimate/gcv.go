package estimate

import "iter"

// GcvPricingInputs is the fuel quality and the production cost per ton.
type GcvPricingInputs struct {
	GCV        float64 `json:"gcv" yaml:"gcv"`
	CostPerTon float64 `json:"costPerTon" yaml:"costPerTon"`
}

// GcvPricingResult is the market price implied by GCV and the margin over cost.
type GcvPricingResult struct {
	MarketPricePerTon float64 `json:"marketPricePerTon"`
	ProfitPerTon      float64 `json:"profitPerTon"`
}

// PricePoint is one (GCV, price) sample of a chart series.
type PricePoint struct {
	GCV   float64 `json:"gcv"`
	Price float64 `json:"price"`
}

// GcvPricing prices pellets at GCVBaseRate per kcal/kg.
func GcvPricing(in GcvPricingInputs) GcvPricingResult {
	price := in.GCV * GCVBaseRate
	return GcvPricingResult{
		MarketPricePerTon: price,
		ProfitPerTon:      price - in.CostPerTon,
	}
}

// ReferenceCurve yields (gcv, price) for GCV 2500 to 4000 kcal/kg in steps of 100.
func ReferenceCurve() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for gcv := ReferenceCurveMinGCV; gcv <= ReferenceCurveMaxGCV; gcv += ReferenceCurveStepGCV {
			g := float64(gcv)
			if !yield(g, g*GCVBaseRate) {
				return
			}
		}
	}
}

// ReferenceCurvePoints collects ReferenceCurve into a slice.
func ReferenceCurvePoints() []PricePoint {
	points := make([]PricePoint, 0, (ReferenceCurveMaxGCV-ReferenceCurveMinGCV)/ReferenceCurveStepGCV+1)
	for gcv, price := range ReferenceCurve() {
		points = append(points, PricePoint{GCV: gcv, Price: price})
	}
	return points
}
