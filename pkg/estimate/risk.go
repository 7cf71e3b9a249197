package estimate

// Risk is an operational risk with a fixed loss estimate and a recommended
// mitigation.
type Risk struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Loss       float64 `json:"loss"`
	Mitigation string  `json:"mitigation"`
}

// Risk identifiers.
const (
	RiskPowerOutage      = "power-outage"
	RiskMachineBreakdown = "machine-breakdown"
	RiskFuelPriceSurge   = "fuel-price-surge"
	RiskMaterialDelay    = "material-delay"
	RiskLaborStrike      = "labor-strike"
)

var riskCatalog = []Risk{
	{ID: RiskPowerOutage, Name: "Power Outage", Loss: 50000, Mitigation: "Install DG backup"},
	{ID: RiskMachineBreakdown, Name: "Machine Breakdown", Loss: 80000, Mitigation: "Get AMC coverage"},
	{ID: RiskFuelPriceSurge, Name: "Fuel Price Surge", Loss: 30000, Mitigation: "Bulk diesel procurement"},
	{ID: RiskMaterialDelay, Name: "Material Delay", Loss: 40000, Mitigation: "Buffer raw material stock"},
	{ID: RiskLaborStrike, Name: "Labor Strike", Loss: 35000, Mitigation: "Maintain contract labor"},
}

// Risks returns a copy of the risk catalog in its fixed order.
func Risks() []Risk {
	return append([]Risk(nil), riskCatalog...)
}

// LookupRisk returns the catalog entry for id.
func LookupRisk(id string) (Risk, bool) {
	for _, risk := range riskCatalog {
		if risk.ID == id {
			return risk, true
		}
	}
	return Risk{}, false
}

// RiskResult is the outcome of a risk simulation.
type RiskResult struct {
	TotalLoss     float64 `json:"totalLoss"`
	SelectedRisks []Risk  `json:"selectedRisks"`
}

// Mitigations lists the suggested fixes for the selected risks, in catalog order.
func (r RiskResult) Mitigations() []string {
	fixes := make([]string, 0, len(r.SelectedRisks))
	for _, risk := range r.SelectedRisks {
		fixes = append(fixes, risk.Mitigation)
	}
	return fixes
}

// SimulateRisks sums the losses of the selected risks. Losses are independent
// and additive; unknown IDs are ignored and repeated IDs count once.
func SimulateRisks(selected []string) RiskResult {
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}

	result := RiskResult{SelectedRisks: []Risk{}}
	for _, risk := range riskCatalog {
		if _, ok := chosen[risk.ID]; !ok {
			continue
		}
		result.TotalLoss += risk.Loss
		result.SelectedRisks = append(result.SelectedRisks, risk)
	}
	return result
}
