package estimate

// CarbonCreditInputs is the monthly production and the credit price.
type CarbonCreditInputs struct {
	MonthlyTons      float64 `json:"monthlyTons" yaml:"monthlyTons"`
	CreditRatePerTon float64 `json:"creditRatePerTon" yaml:"creditRatePerTon"`
}

// CarbonCreditResult is the CO2 avoided and the credit it earns.
type CarbonCreditResult struct {
	CO2Saved    float64 `json:"co2Saved"`
	CreditValue float64 `json:"creditValue"`
	Suggestion  string  `json:"suggestion"`
}

// CarbonCredit estimates monthly CO2 savings at CO2PerTon and their credit value.
func CarbonCredit(in CarbonCreditInputs) CarbonCreditResult {
	saved := in.MonthlyTons * CO2PerTon
	return CarbonCreditResult{
		CO2Saved:    saved,
		CreditValue: saved * in.CreditRatePerTon,
		Suggestion:  SubsidySuggestion,
	}
}
