package estimate

// Factory setup cost rates (₹).
const (
	LandRatePerSqft      = 600.0
	LandAreaSqft         = 10000.0
	MachineryCostPerTPD  = 950000.0
	WarehouseRatePerSqft = 1600.0
	WarehouseAreaSqft    = 3000.0
	ElectricityCost      = 1200000.0
	LaborMonthlyWage     = 15000.0
	LaborAdvanceMonths   = 12.0
	LaborAdvanceHeads    = 5.0
	TransportSetupCost   = 500000.0
	InstallationCost     = 400000.0
	AdminCost            = 100000.0
	WorkingCapitalPerTPD = 300000.0

	// ContingencyRate applies to machinery, warehouse and labor advance only.
	ContingencyRate = 0.1
)

// Factory setup cost line categories, in report order.
const (
	CategoryLand           = "Land"
	CategoryMachinery      = "Machinery"
	CategoryWarehouse      = "Warehouse"
	CategoryElectricity    = "Electricity"
	CategoryLaborAdvance   = "Labor (Advance)"
	CategoryTransport      = "Transport"
	CategoryInstallation   = "Installation"
	CategoryAdmin          = "Admin"
	CategoryWorkingCapital = "Working Capital"
	CategoryContingency    = "Contingency"
)

const (
	// CO2PerTon is tons of CO2 avoided per ton of pellets burned instead of coal.
	CO2PerTon = 1.8

	// GCVBaseRate is the simple-variant market price in ₹/ton per kcal/kg.
	GCVBaseRate = 4.5

	// GCVPriceFactor and TonKg form the canonical GCV-to-price conversion
	// price = gcv * GCVPriceFactor * TonKg.
	GCVPriceFactor = 0.0025
	TonKg          = 1000.0

	// ForecastMonths is the length of the cumulative-profit sequence.
	ForecastMonths = 12
)

// Reference curve bounds for the simple GCV pricing chart (kcal/kg).
const (
	ReferenceCurveMinGCV  = 2500
	ReferenceCurveMaxGCV  = 4000
	ReferenceCurveStepGCV = 100
)

// Jitter and live-price bounds (₹/ton, inclusive).
const (
	PriceJitter       = 300
	LivePriceMinimum  = 8500
	LivePriceMaximum  = 11500
	DefaultCostPerTon = 5000.0
)

// SubsidySuggestion accompanies every carbon credit estimate.
const SubsidySuggestion = "You may be eligible for MNRE's Biomass Program or state-level energy grants."
