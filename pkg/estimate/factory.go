// Package estimate holds the formula engine: stateless calculators that turn
// plant parameters into capital, operating and revenue figures.
//
// Every calculator is a total function over its numeric inputs. A zero
// denominator yields 0 rather than NaN, Inf or a panic, and no input is
// rejected; bounds checking belongs to the caller.
package estimate

// FactorySetupInputs drives the capital expenditure estimate.
type FactorySetupInputs struct {
	TonsPerDay float64 `json:"tonsPerDay" yaml:"tonsPerDay"`
}

// CostLine is one category of the setup cost breakdown.
type CostLine struct {
	Category string  `json:"category"`
	Cost     float64 `json:"cost"`
}

// FactorySetupResult is the ordered ten-line breakdown and its total.
type FactorySetupResult struct {
	TonsPerDay float64    `json:"tonsPerDay"`
	Lines      []CostLine `json:"lines"`
	Total      float64    `json:"total"`
}

// Cost returns the cost for the named category.
func (r FactorySetupResult) Cost(category string) (float64, bool) {
	for _, line := range r.Lines {
		if line.Category == category {
			return line.Cost, true
		}
	}
	return 0, false
}

// FactorySetup computes the setup cost breakdown for a plant of the given
// throughput. Machinery and working capital scale linearly with tons per day.
func FactorySetup(in FactorySetupInputs) FactorySetupResult {
	tpd := in.TonsPerDay

	machinery := MachineryCostPerTPD * tpd
	warehouse := WarehouseRatePerSqft * WarehouseAreaSqft
	laborAdvance := LaborMonthlyWage * LaborAdvanceMonths * LaborAdvanceHeads

	lines := []CostLine{
		{Category: CategoryLand, Cost: LandRatePerSqft * LandAreaSqft},
		{Category: CategoryMachinery, Cost: machinery},
		{Category: CategoryWarehouse, Cost: warehouse},
		{Category: CategoryElectricity, Cost: ElectricityCost},
		{Category: CategoryLaborAdvance, Cost: laborAdvance},
		{Category: CategoryTransport, Cost: TransportSetupCost},
		{Category: CategoryInstallation, Cost: InstallationCost},
		{Category: CategoryAdmin, Cost: AdminCost},
		{Category: CategoryWorkingCapital, Cost: WorkingCapitalPerTPD * tpd},
		{Category: CategoryContingency, Cost: ContingencyRate * (machinery + warehouse + laborAdvance)},
	}

	total := 0.0
	for _, line := range lines {
		total += line.Cost
	}

	return FactorySetupResult{
		TonsPerDay: tpd,
		Lines:      lines,
		Total:      total,
	}
}
