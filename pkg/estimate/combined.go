package estimate

import "github.com/iwvelando/biomass-estimator/pkg/mathutil"

// CombinedScenarioInputs is a month of plant operation.
type CombinedScenarioInputs struct {
	Tons            float64 `json:"tons" yaml:"tons"`
	GCV             float64 `json:"gcv" yaml:"gcv"`
	RawMaterialCost float64 `json:"rawMaterialCost" yaml:"rawMaterialCost"`
	LaborCost       float64 `json:"laborCost" yaml:"laborCost"`
	ElectricityCost float64 `json:"electricityCost" yaml:"electricityCost"`
	MaintenanceCost float64 `json:"maintenanceCost" yaml:"maintenanceCost"`
	CreditPerTon    float64 `json:"creditPerTon" yaml:"creditPerTon"`
}

// CombinedScenarioResult is the monthly profit and loss of a scenario.
type CombinedScenarioResult struct {
	Price               float64 `json:"price"`
	TotalCost           float64 `json:"totalCost"`
	Revenue             float64 `json:"revenue"`
	CarbonCredit        float64 `json:"carbonCredit"`
	TotalRevenue        float64 `json:"totalRevenue"`
	ProfitWithoutCredit float64 `json:"profitWithoutCredit"`
	ProfitWithCredit    float64 `json:"profitWithCredit"`
	BreakevenTons       float64 `json:"breakevenTons"`
	ROI                 float64 `json:"roi"`
	EarningPerKcal      float64 `json:"earningPerKcal"`
}

// CanonicalPrice converts GCV (kcal/kg) to a pellet price in ₹/ton. It is the
// only GCV-to-price conversion used in financial figures.
func CanonicalPrice(gcv float64) float64 {
	return gcv * GCVPriceFactor * TonKg
}

// CombinedScenario computes the monthly profit and loss. The price always comes
// from CanonicalPrice, even when the GCV was taken from a catalog entry that
// carries its own reference price.
func CombinedScenario(in CombinedScenarioInputs) CombinedScenarioResult {
	price := CanonicalPrice(in.GCV)
	totalCost := in.RawMaterialCost + in.LaborCost + in.ElectricityCost + in.MaintenanceCost
	revenue := in.Tons * price
	carbonCredit := in.Tons * in.CreditPerTon
	totalRevenue := revenue + carbonCredit
	profitWithCredit := totalRevenue - totalCost

	return CombinedScenarioResult{
		Price:               price,
		TotalCost:           totalCost,
		Revenue:             revenue,
		CarbonCredit:        carbonCredit,
		TotalRevenue:        totalRevenue,
		ProfitWithoutCredit: revenue - totalCost,
		ProfitWithCredit:    profitWithCredit,
		BreakevenTons:       mathutil.RoundTo(mathutil.SafeDivide(totalCost, price), 2),
		ROI:                 mathutil.CalculatePercentage(profitWithCredit, totalCost),
		EarningPerKcal:      mathutil.SafeDivide(price, in.GCV),
	}
}
